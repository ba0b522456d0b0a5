package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = newValidator()
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return v
}

/*
* Run the struct validator
* Turn the first failing field into a ValidationError with a readable message
 */
func validateStruct(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return util.ValidationError(err.Error())
	}
	return util.ValidationError(fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "phone":
		return util.INVALID_PHONE
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(util.DateLayout, value)
	if err != nil {
		return time.Time{}, util.ValidationError(util.INVALID_DATE)
	}
	return t, nil
}

// storeError converts a repository failure into the error the caller sees.
// notFound is used for ErrNotFound and conflict for ErrDuplicate.
func storeError(err error, notFound, conflict string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return util.NotFoundError(notFound)
	case errors.Is(err, repositories.ErrDuplicate) && conflict != "":
		return util.ConflictError(conflict)
	}
	return util.InternalError("store operation failed", err)
}
