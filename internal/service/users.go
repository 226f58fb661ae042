package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/go-board/internal/metrics"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/pribylovaa/go-board/pkg/log"
	"github.com/pribylovaa/go-board/pkg/redact"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPassword = 8
	// bcrypt игнорирует всё после 72 байт.
	maxPasswordBytes = 72
)

// RegisterUser - регистрация автора: email, пароль (хранится bcrypt-хеш) и ник.
//
// Валидация:
//   - email нормализуется (TrimSpace + lower) и проверяется net/mail;
//   - пароль: не короче 8 символов и не длиннее 72 байт;
//   - ник: не пустой, не длиннее 40 символов.
//
// Ошибки: ErrInvalidArgument, ErrConflict (email занят), ErrInternal.
func (s *Service) RegisterUser(ctx context.Context, email, password, nickname string) (*models.UserView, error) {
	const op = "service/users/RegisterUser"

	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)
	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	if _, err := mail.ParseAddress(email); err != nil {
		lg.Warn("invalid email")
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, models.ErrInvalidEmail)
	}

	if utf8.RuneCountInString(password) < minPassword || len(password) > maxPasswordBytes {
		lg.Warn("invalid password", "password", redact.Password())
		return nil, fmt.Errorf("%s: %w: invalid password", op, ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		lg.Error("hash password", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := models.NewUser(email, string(hash), nickname)
	if err != nil {
		lg.Warn("invalid user", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	id, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			lg.Warn("email already taken")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	user.ID = id
	lg.Info("user registered", "user_id", id)

	view := models.NewUserView(user)

	return &view, nil
}

// UserByID - публичный профиль ACTIVE-пользователя.
//
// Ошибки: ErrNotFound (нет пользователя или он не ACTIVE), ErrInternal.
func (s *Service) UserByID(ctx context.Context, id int64) (*models.UserView, error) {
	const op = "service/users/UserByID"

	lg := log.From(ctx).With("op", op, "user_id", id)

	u, err := s.storage.UserByIDAndStatus(ctx, id, models.UserActive)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("user not available")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	view := models.NewUserView(*u)

	return &view, nil
}

// BlockUser - ACTIVE -> BLOCKED. Заблокированный пользователь не может быть автором.
func (s *Service) BlockUser(ctx context.Context, id int64) error {
	return s.transitionUser(ctx, "service/users/BlockUser", id, models.UserActive, models.UserBlocked)
}

// ActivateUser - BLOCKED -> ACTIVE.
func (s *Service) ActivateUser(ctx context.Context, id int64) error {
	return s.transitionUser(ctx, "service/users/ActivateUser", id, models.UserBlocked, models.UserActive)
}

// transitionUser - условная смена статуса; 0 строк - ErrNotFound
// (пользователя нет или он не в статусе from).
func (s *Service) transitionUser(ctx context.Context, op string, id int64, from, to models.UserStatus) error {
	lg := log.From(ctx).With("op", op, "user_id", id)

	n, err := s.storage.TransitionUserStatus(ctx, id, from, to)
	if err != nil {
		return storageFailure(ctx, lg, op, err)
	}

	if n == 0 {
		lg.Warn("user not found or not in expected status", "from", string(from))
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	s.metrics.Transition(metrics.EntityUser, string(to))
	lg.Info("user status changed", "from", string(from), "to", string(to))

	return nil
}
