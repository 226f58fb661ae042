package handlers

import (
	"context"
	"net/http"

	apierrors "github.com/pribylovaa/go-board/internal/errors"
)

// RegisterUserRequest - тело POST /users.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in RegisterUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.RegisterUser(r.Context(), in.Email, in.Password, in.Nickname)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	resp, err := h.Board.UserByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.userStatus(w, r, h.Board.BlockUser)
}

func (h *Handlers) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.userStatus(w, r, h.Board.ActivateUser)
}

func (h *Handlers) userStatus(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, id int64) error) {
	id, err := pathID(r, "id")
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
