package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxEmail        = 255
	MaxPasswordHash = 255
	MaxNickname     = 40
)

var (
	// ErrInvalidEmail - пустой или слишком длинный email.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPasswordHash - пустой или слишком длинный хеш пароля.
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	// ErrInvalidNickname - пустой или слишком длинный ник.
	ErrInvalidNickname = errors.New("invalid nickname")
)

// UserStatus - статус пользователя.
type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserBlocked UserStatus = "BLOCKED"
	UserDeleted UserStatus = "DELETED"
)

// User - минимальная модель автора. Email уникален (проверяется хранилищем).
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Nickname     string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser собирает активного пользователя с проверкой полей.
func NewUser(email, passwordHash, nickname string) (User, error) {
	if strings.TrimSpace(email) == "" || utf8.RuneCountInString(email) > MaxEmail {
		return User{}, ErrInvalidEmail
	}

	if strings.TrimSpace(passwordHash) == "" || len(passwordHash) > MaxPasswordHash {
		return User{}, ErrInvalidPasswordHash
	}

	if strings.TrimSpace(nickname) == "" || utf8.RuneCountInString(nickname) > MaxNickname {
		return User{}, ErrInvalidNickname
	}

	now := time.Now().UTC()

	return User{
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		Status:       UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UserView - публичное представление пользователя (без хеша пароля).
type UserView struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Nickname  string     `json:"nickname"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUserView строит представление пользователя.
func NewUserView(u User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
