package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ticketing/internal/lib/jwt"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
	"ticketing/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidUser        = errors.New("a valid email, a password of at least 8 characters and a known role are required")
)

const minPasswordLength = 8

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type Service struct {
	log      *slog.Logger
	users    UserStore
	secret   string
	tokenTTL time.Duration
}

func New(log *slog.Logger, users UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		log:      log,
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *Service) Register(ctx context.Context, email, password string, role models.Role) (models.User, error) {
	const op = "services.auth.Register"

	log := s.log.With(slog.String("op", op))

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || len(password) < minPasswordLength || !role.Valid() {
		return models.User{}, ErrInvalidUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("email already registered")
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID), slog.String("role", string(role)))

	return user, nil
}

// Login returns a signed token. An unknown email and a wrong password give
// the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	const op = "services.auth.Login"

	log := s.log.With(slog.String("op", op))

	user, err := s.users.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", slog.Int64("user_id", user.ID))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewToken(user, s.secret, s.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))

	return token, nil
}
