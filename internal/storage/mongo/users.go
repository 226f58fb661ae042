package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/go-board/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

type userDoc struct {
	ID           int64     `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Nickname     string    `bson:"nickname"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// CreateUser вставляет пользователя. Дубликат email - storage.ErrConflict (уникальный индекс).
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage/mongo/users/CreateUser"

	id, err := s.nextID(ctx, usersCollection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	doc := userDoc{
		ID:           id,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Nickname:     user.Nickname,
		Status:       string(user.Status),
		CreatedAt:    toMS(user.CreatedAt),
		UpdatedAt:    toMS(user.UpdatedAt),
	}

	if _, err := s.users.InsertOne(s.bind(ctx), doc); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, mapError(err))
	}

	return id, nil
}

// UserByIDAndStatus возвращает пользователя в заданном статусе.
func (s *Storage) UserByIDAndStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	const op = "storage/mongo/users/UserByIDAndStatus"

	var doc userDoc
	err := s.users.FindOne(s.bind(ctx), bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: string(status)},
	}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return &models.User{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Nickname:     doc.Nickname,
		Status:       models.UserStatus(doc.Status),
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}, nil
}

// TransitionUserStatus - условная смена статуса пользователя.
func (s *Storage) TransitionUserStatus(ctx context.Context, id int64, from, to models.UserStatus) (int64, error) {
	const op = "storage/mongo/users/TransitionUserStatus"

	res, err := s.users.UpdateOne(s.bind(ctx),
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(to)},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount, nil
}
