package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"homewatt/internal/domain"
	"homewatt/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	repos  *repository.Repos
	secret []byte
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	taken, err := s.repos.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if _, err := s.repos.CreateUser(ctx, name, email, string(hash)); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Login verifies credentials and issues a signed session token. The returned
// user never carries the password hash on the wire (json:"-").
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return domain.User{}, "", err
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("login: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, currentPassword, newPassword string) error {
	user, err := s.verify(ctx, email, currentPassword)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return s.repos.UpdateUserPassword(ctx, user.ID, string(hash))
}

// DeleteAccount removes the user after verifying credentials; owned breakers,
// limits, samples and alerts cascade away with the row.
func (s *AuthService) DeleteAccount(ctx context.Context, email, password string) error {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return err
	}
	return s.repos.DeleteUser(ctx, user.ID)
}

// ParseToken validates a session token and returns the user id it carries.
func (s *AuthService) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	return int64(sub), nil
}

func (s *AuthService) verify(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repos.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("verify: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
