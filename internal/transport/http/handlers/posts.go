package handlers

import (
	"context"
	"net/http"
	"strconv"

	apierrors "github.com/pribylovaa/go-board/internal/errors"
	"github.com/pribylovaa/go-board/internal/service"
	"github.com/pribylovaa/go-board/internal/transport/http/middleware"
)

// CreatePostRequest - тело POST /posts. Автор берётся из X-User-Id.
type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Region    *string  `json:"region"`
	Tags      []string `json:"tags"`
}

// UpdatePostRequest - тело PATCH /posts/{id}; отсутствующие поля не меняются.
type UpdatePostRequest struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Region    *string  `json:"region"`
	Tags      []string `json:"tags"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in CreatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.CreatePost(r.Context(), service.CreatePostInput{
		Title:     in.Title,
		Content:   in.Content,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Region:    in.Region,
		Tags:      in.Tags,
		AuthorID:  middleware.UserIDFrom(r.Context()),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.ListPosts(r.Context(), r.URL.Query().Get("region"), page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	resp, err := h.Board.SearchPosts(r.Context(), q.Get("region"), q.Get("keyword"), page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPost отдаёт карточку поста; increase_view по умолчанию true.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	increaseView := true
	if v := r.URL.Query().Get("increase_view"); v != "" {
		increaseView, err = strconv.ParseBool(v)
		if err != nil {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}
	}

	resp, err := h.Board.PostDetail(r.Context(), id, increaseView)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.UpdatePost(r.Context(), id, service.UpdatePostInput{
		Title:     in.Title,
		Content:   in.Content,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Region:    in.Region,
		Tags:      in.Tags,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	likes, err := h.Board.LikePost(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{LikeCount: likes})
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.postStatus(w, r, h.Board.SoftDeletePost)
}

func (h *Handlers) HidePost(w http.ResponseWriter, r *http.Request) {
	h.postStatus(w, r, h.Board.HidePost)
}

func (h *Handlers) ActivatePost(w http.ResponseWriter, r *http.Request) {
	h.postStatus(w, r, h.Board.ActivatePost)
}

func (h *Handlers) postStatus(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, id int64) error) {
	id, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := change(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
