package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-board/internal/errors"
	"github.com/pribylovaa/go-board/internal/transport/http/middleware"
)

// CommentRequest - тело создания и редактирования комментария.
type CommentRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := h.Board.CreateRoot(r.Context(), postID, middleware.UserIDFrom(r.Context()), in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	parentID, err := pathID(r, "commentId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := h.Board.CreateReply(r.Context(), postID, parentID, middleware.UserIDFrom(r.Context()), in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, size, err := pageParams(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.ListRootsWithReplies(r.Context(), postID, page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) LikeComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	likes, err := h.Board.Like(r.Context(), postID, commentID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{LikeCount: likes})
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.UpdateContent(r.Context(), postID, commentID, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteComment - мягкое удаление; повторный вызов тоже 204.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Board.SoftDelete(r.Context(), postID, commentID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func commentPath(r *http.Request) (int64, int64, error) {
	postID, err := pathID(r, "postId")
	if err != nil {
		return 0, 0, err
	}

	commentID, err := pathID(r, "commentId")
	if err != nil {
		return 0, 0, err
	}

	return postID, commentID, nil
}
