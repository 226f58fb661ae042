// errors стандартизирует ответы об ошибках HTTP-слоя board-сервиса.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - краткий стабильный code и безопасное message без деталей хранилища.
//
// Источник истинности по маппингу: сентинелы internal/service.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError - единый формат ошибки для клиентов.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// reasons - доменные причины, которые можно показать клиенту как есть.
var reasons = []error{
	models.ErrInvalidContent,
	models.ErrParentPostMismatch,
	models.ErrParentNotActive,
	models.ErrCommentNotActive,
	models.ErrMissingPost,
	models.ErrInvalidTitle,
	models.ErrInvalidPostContent,
	models.ErrInvalidCoordinates,
	models.ErrInvalidRegion,
	models.ErrInvalidTags,
	models.ErrInvalidEmail,
	models.ErrInvalidPasswordHash,
	models.ErrInvalidNickname,
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и тело ответа.
//
// Поведение:
//   - err == nil - программная ошибка вызова, отдаём 500/internal;
//   - сентинелы service маппятся через errors.Is;
//   - отмена/дедлайн контекста - 499/504;
//   - всё прочее - 500/internal без утечки деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := base(err)

	if httpStatus == http.StatusBadRequest {
		for _, r := range reasons {
			if stderrors.Is(err, r) {
				msg = r.Error()
				break
			}
		}
	}

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError пишет статус и тело, добавляя request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
