package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusFor maps an error kind onto its HTTP status.
func statusFor(err error) int {
	switch util.KindOf(err) {
	case util.KindValidation:
		return http.StatusBadRequest
	case util.KindNotFound:
		return http.StatusNotFound
	case util.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status, err := classify(c, err)
	c.JSON(status, util.FailedResponse(err))
}

// failWithData reports err while still returning whatever the workflow
// already recorded.
func failWithData(c *gin.Context, err error, data interface{}) {
	status, err := classify(c, err)
	c.JSON(status, util.FailedResponseWithData(err, data))
}

/*
* Log server side failures with their cause
* An error without a kind is wrapped so its text is never sent
 */
func classify(c *gin.Context, err error) (int, error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		return status, err
	}
	log.WithFields(log.Fields{"path": c.FullPath(), "method": c.Request.Method}).Println("Error while handling request: ", err)
	var appErr *util.AppError
	if !errors.As(err, &appErr) {
		err = util.InternalError(util.INTERNAL_SERVER_ERROR, err)
	}
	return status, err
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, util.FailedResponse(errors.New(util.INVALID_REQUEST_BODY)))
}

// actor is the staff code of the session user, empty when unauthenticated.
func actor(c *gin.Context) string {
	return c.GetString(authorization.CodeKey)
}

func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
