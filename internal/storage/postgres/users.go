package postgres

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-board/internal/models"
)

// CreateUser вставляет пользователя.
// Ошибки: storage.ErrConflict при дубликате email.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage/postgres/users/CreateUser"

	var id int64
	err := s.db.QueryRow(ctx, `
	INSERT INTO users (email, password_hash, nickname, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		string(user.Status),
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return id, nil
}

// UserByIDAndStatus возвращает пользователя в заданном статусе.
func (s *Storage) UserByIDAndStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	const op = "storage/postgres/users/UserByIDAndStatus"

	var user models.User
	var st string

	err := s.db.QueryRow(ctx, `
	SELECT id, email, password_hash, nickname, status, created_at, updated_at
	FROM users
	WHERE id = $1 AND status = $2
	`, id, string(status)).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&st,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	user.Status = models.UserStatus(st)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return &user, nil
}

// TransitionUserStatus - условная смена статуса пользователя.
func (s *Storage) TransitionUserStatus(ctx context.Context, id int64, from, to models.UserStatus) (int64, error) {
	const op = "storage/postgres/users/TransitionUserStatus"

	tag, err := s.db.Exec(ctx, `
	UPDATE users SET status = $3, updated_at = now()
	WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
