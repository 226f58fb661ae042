package sqlite

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-board/internal/models"
)

// CreateUser вставляет пользователя. Дубликат email - storage.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage/sqlite/users/CreateUser"

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO users (email, password_hash, nickname, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		string(user.Status),
		toUnix(user.CreatedAt),
		toUnix(user.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UserByIDAndStatus возвращает пользователя в заданном статусе.
func (s *Storage) UserByIDAndStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	const op = "storage/sqlite/users/UserByIDAndStatus"

	var (
		user             models.User
		st               string
		created, updated int64
	)

	err := s.db.QueryRowContext(ctx, `
	SELECT id, email, password_hash, nickname, status, created_at, updated_at
	FROM users WHERE id = ? AND status = ?
	`, id, string(status)).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&st,
		&created,
		&updated,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	user.Status = models.UserStatus(st)
	user.CreatedAt = fromUnix(created)
	user.UpdatedAt = fromUnix(updated)

	return &user, nil
}

// TransitionUserStatus - условная смена статуса пользователя.
func (s *Storage) TransitionUserStatus(ctx context.Context, id int64, from, to models.UserStatus) (int64, error) {
	const op = "storage/sqlite/users/TransitionUserStatus"

	res, err := s.db.ExecContext(ctx, `
	UPDATE users SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`, string(to), nowUnix(), id, string(from))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}
