// service содержит бизнес-логику board-сервиса: комментарии, посты и пользователи.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-board/internal/config"
	"github.com/pribylovaa/go-board/internal/metrics"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
)

var (
	// ErrNotFound - сущность отсутствует или недоступна в текущем статусе.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized - переданный автор не является активным пользователем.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument - неверные входные параметры или нарушение инвариантов сущности.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict - конфликт уникальности или параллельная смена статуса.
	ErrConflict = errors.New("conflict")
	// ErrInternal - внутренняя ошибка (хранилище/БД).
	ErrInternal = errors.New("internal")
)

// errUnavailable и errReload - внутренние сигналы из транзакции лайка/просмотра.
var (
	errUnavailable = errors.New("target not available")
	errReload      = errors.New("reload after increment failed")
)

// Service - бизнес-логика board-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.Config
	metrics *metrics.Metrics
}

// New создаёт новый экземпляр Service. m может быть nil.
func New(storage storage.Storage, cfg config.Config, m *metrics.Metrics) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		metrics: m,
	}
}

// pageRequest нормализует параметры страницы:
// page < 0 или size < 0 - ErrInvalidArgument; size = 0 - limits.default; size > limits.max - limits.max.
func (s *Service) pageRequest(page, size int) (models.PageRequest, error) {
	if page < 0 || size < 0 {
		return models.PageRequest{}, ErrInvalidArgument
	}

	if size == 0 {
		size = s.cfg.Limits.Default
	}

	if s.cfg.Limits.Max > 0 && size > s.cfg.Limits.Max {
		size = s.cfg.Limits.Max
	}

	return models.PageRequest{Page: page, Size: size}, nil
}

// activeAuthor проверяет, что автор (если задан) - активный пользователь.
// Возвращает ссылку на автора для выдачи.
func (s *Service) activeAuthor(ctx context.Context, lg *slog.Logger, op string, authorID *int64) (*models.AuthorRef, error) {
	if authorID == nil {
		return nil, nil
	}

	u, err := s.storage.UserByIDAndStatus(ctx, *authorID, models.UserActive)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("author is not an active user", "author_id", *authorID)
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	return &models.AuthorRef{ID: u.ID, Nickname: u.Nickname}, nil
}

// storageFailure логирует сбой хранилища и возвращает ErrInternal.
// Если запрос уже отменён или истёк, возвращается ошибка контекста.
func storageFailure(ctx context.Context, lg *slog.Logger, op string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		lg.Warn("request context done", "err", cerr)
		return fmt.Errorf("%s: %w", op, cerr)
	}

	lg.Error("storage error", "err", err)

	return fmt.Errorf("%s: %w", op, ErrInternal)
}

// counterFailure переводит ошибку транзакции "инкремент + перечитывание" в ошибку сервиса.
// Неудачное перечитывание после успешного инкремента - несогласованность:
// пишется в лог уровнем Error и в метрики, наружу уходит ErrNotFound.
func (s *Service) counterFailure(ctx context.Context, lg *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, errUnavailable):
		lg.Warn("target not available")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, errReload):
		lg.Error("inconsistent state: increment applied but reload failed", "err", err)
		s.metrics.Inconsistent(op)
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return storageFailure(ctx, lg, op, err)
	}
}
