package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/service"
	"github.com/stretchr/testify/require"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("service/x: %w", err) }

	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", wrap(service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unauthorized", wrap(service.ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
		{"not_found", wrap(service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", wrap(service.ErrConflict), http.StatusConflict, "conflict"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", wrap(service.ErrInternal), http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_InvalidArgumentReason(t *testing.T) {
	err := fmt.Errorf("service/comments/CreateRoot: %w: %w", service.ErrInvalidArgument, models.ErrInvalidContent)

	gotStatus, resp := ToHTTP(err)
	require.Equal(t, http.StatusBadRequest, gotStatus)
	require.Equal(t, models.ErrInvalidContent.Error(), resp.Error.Message)

	// Детали хранилища не утекают наружу.
	_, resp = ToHTTP(fmt.Errorf("%w: pq: relation does not exist", service.ErrInternal))
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_RequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "not_found", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
