package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type TokenIssuer interface {
	Issue(userID, name, roleCode string) (string, time.Time, error)
}

type AuthService struct {
	staff  repositories.StaffRepository
	tokens TokenIssuer
}

func NewAuthService(staff repositories.StaffRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{staff: staff, tokens: tokens}
}

/*
* Look the staff member up by email
* Compare the bcrypt hash, unknown email and wrong password fail the same way
* Issue a session token carrying the staff code, name and role
 */
func (s *AuthService) Login(ctx context.Context, input models.Login) (*models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, util.ValidationError(util.INVALID_CREDENTIALS)
	}
	staff, err := s.staff.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, util.ValidationError(util.INVALID_CREDENTIALS)
	}
	if err != nil {
		log.Println("Error from staff GetByEmail: ", err)
		return nil, util.InternalError("failed to load staff", err)
	}
	if !staff.IsActive {
		return nil, util.ValidationError(util.INVALID_CREDENTIALS)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(input.Password)); err != nil {
		return nil, util.ValidationError(util.INVALID_CREDENTIALS)
	}

	token, expires, err := s.tokens.Issue(staff.Code, staff.Name, staff.Role)
	if err != nil {
		return nil, util.InternalError("failed to issue session", err)
	}
	return &models.Session{
		Token:     token,
		UserID:    staff.Code,
		Name:      staff.Name,
		Role:      staff.Role,
		ExpiresAt: expires.Unix(),
	}, nil
}
