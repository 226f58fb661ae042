package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/service"
)

// Board - операции сервисного слоя, которые обслуживает HTTP API.
type Board interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (*models.PostView, error)
	ListPosts(ctx context.Context, region string, page, size int) (*models.PostPage, error)
	SearchPosts(ctx context.Context, region, keyword string, page, size int) (*models.PostPage, error)
	PostDetail(ctx context.Context, id int64, increaseView bool) (*models.PostView, error)
	LikePost(ctx context.Context, id int64) (int64, error)
	UpdatePost(ctx context.Context, id int64, in service.UpdatePostInput) (*models.PostView, error)
	SoftDeletePost(ctx context.Context, id int64) error
	HidePost(ctx context.Context, id int64) error
	ActivatePost(ctx context.Context, id int64) error

	CreateRoot(ctx context.Context, postID int64, authorID *int64, content string) (int64, error)
	CreateReply(ctx context.Context, postID, parentID int64, authorID *int64, content string) (int64, error)
	ListRootsWithReplies(ctx context.Context, postID int64, page, size int) (*models.CommentPage, error)
	Like(ctx context.Context, postID, commentID int64) (int64, error)
	SoftDelete(ctx context.Context, postID, commentID int64) error
	UpdateContent(ctx context.Context, postID, commentID int64, content string) (*models.CommentView, error)

	RegisterUser(ctx context.Context, email, password, nickname string) (*models.UserView, error)
	UserByID(ctx context.Context, id int64) (*models.UserView, error)
	BlockUser(ctx context.Context, id int64) error
	ActivateUser(ctx context.Context, id int64) error
}

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	Board Board
}

func New(b Board) *Handlers {
	return &Handlers{Board: b}
}

// idResponse - ответ на создание сущности.
type idResponse struct {
	ID int64 `json:"id"`
}

// likeResponse - новое значение счётчика лайков.
type likeResponse struct {
	LikeCount int64 `json:"like_count"`
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w: %w", service.ErrInvalidArgument, err)
	}

	return nil
}

// pathID читает положительный int64 из параметра пути.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("path %s: %w", name, service.ErrInvalidArgument)
	}

	return id, nil
}

// pageParams читает page/size из query; отсутствующие значения - 0 (размер по умолчанию).
func pageParams(r *http.Request) (int, int, error) {
	q := r.URL.Query()

	page, err := queryInt(q.Get("page"))
	if err != nil {
		return 0, 0, fmt.Errorf("query page: %w", err)
	}

	size, err := queryInt(q.Get("size"))
	if err != nil {
		return 0, 0, fmt.Errorf("query size: %w", err)
	}

	return page, size, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, service.ErrInvalidArgument
	}

	return n, nil
}
