package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"github.com/grupo09/debtmanager/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetCodeLength = 6
	resetCodeTTL    = 15 * time.Minute
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
}

type AuthService struct {
	users      AuthUserRepository
	resetCodes ResetCodeStore
	mailer     Mailer
}

func NewAuthService(users AuthUserRepository, resetCodes ResetCodeStore, mailer Mailer) *AuthService {
	return &AuthService{
		users:      users,
		resetCodes: resetCodes,
		mailer:     mailer,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (service *AuthService) Register(input RegisterInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)

	switch {
	case name == "":
		return models.User{}, NewValidationError("name is required")
	case email == "":
		return models.User{}, NewValidationError("email is required")
	case phone == "":
		return models.User{}, NewValidationError("phone is required")
	case len(input.Password) < 8:
		return models.User{}, NewValidationError("password must be at least 8 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, NewValidationError("email is not valid")
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, ErrEmailTaken
	}
	return user, nil
}

func (service *AuthService) Login(email string, password string) (models.User, error) {
	user, err := service.users.FindByNormalizedEmail(NormalizeEmail(email))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// RequestPasswordReset issues a short-lived numeric code for the account and
// mails it. The response is identical whether or not the email exists, so
// callers cannot probe for accounts.
func (service *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)
	user, err := service.users.FindByNormalizedEmail(normalized)
	if err != nil {
		return nil
	}

	code, err := security.RandomDigits(resetCodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := service.resetCodes.Put(ctx, normalized, code, resetCodeTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if service.mailer != nil {
		body := fmt.Sprintf("Hi %s,\n\nYour password reset code is: %s\nIt expires in 15 minutes.", user.Name, code)
		if err := service.mailer.SendMail(user.Email, "Your password reset code", body); err != nil {
			log.Printf("auth: send reset mail failed: %v", err)
		}
	}
	return nil
}

// ResetPassword verifies the emailed code and replaces the password. The
// code is single use: it is consumed on success.
func (service *AuthService) ResetPassword(ctx context.Context, email string, code string, newPassword string) error {
	if len(newPassword) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}

	normalized := NormalizeEmail(email)
	stored, found := service.resetCodes.Get(ctx, normalized)
	if !found {
		return ErrResetCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrResetCodeInvalid
	}

	user, err := service.users.FindByNormalizedEmail(normalized)
	if err != nil {
		return ErrResetCodeInvalid
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := service.resetCodes.Consume(ctx, normalized); err != nil {
		log.Printf("auth: consume reset code failed: %v", err)
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
