package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
)

type userRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	userRepo userRepository
	jwt      *middleware.JWTAuth
	validate *validator.Validate
}

func NewAuthService(userRepo userRepository, jwt *middleware.JWTAuth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validationFields(err)}
	}

	// Check uniqueness
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already registered"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Hash password (bcrypt cost 12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", &UnauthorizedError{Message: "Invalid email or password"}
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &UnauthorizedError{Message: "Invalid email or password"}
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", &UnauthorizedError{Message: "Invalid email or password"}
	}

	return s.jwt.GenerateToken(user.ID)
}

func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["request"] = "Invalid request"
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fe.Field() + " is required"
		case "email":
			fields[fe.Field()] = "Invalid email format"
		case "min":
			fields[fe.Field()] = fe.Field() + " must be at least " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "Invalid value"
		}
	}
	return fields
}

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
