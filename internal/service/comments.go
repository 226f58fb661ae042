package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-board/internal/metrics"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/pribylovaa/go-board/pkg/log"
)

// CreateRoot - создание корневого комментария к посту.
//
// Поведение/ошибки:
//   - ErrNotFound - пост отсутствует или не ACTIVE;
//   - ErrUnauthorized - authorID задан, но пользователь не ACTIVE;
//   - ErrInvalidArgument - пустой или слишком длинный текст;
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) CreateRoot(ctx context.Context, postID int64, authorID *int64, content string) (int64, error) {
	const op = "service/comments/CreateRoot"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	if err := s.requireActivePost(ctx, lg, op, postID); err != nil {
		return 0, err
	}

	if _, err := s.activeAuthor(ctx, lg, op, authorID); err != nil {
		return 0, err
	}

	comment, err := models.NewRootComment(postID, authorID, content)
	if err != nil {
		lg.Warn("invalid comment", "err", err)
		return 0, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	id, err := s.createComment(ctx, lg, op, comment)
	if err != nil {
		return 0, err
	}

	lg.Info("root comment created", "comment_id", id)

	return id, nil
}

// CreateReply - создание ответа на комментарий parentID внутри поста postID.
//
// Поведение/ошибки:
//   - ErrNotFound - пост не ACTIVE или родитель отсутствует;
//   - ErrInvalidArgument - родитель из другого поста, родитель не ACTIVE, невалидный текст;
//   - ErrUnauthorized - authorID задан, но пользователь не ACTIVE;
//   - ErrInternal - прочие ошибки хранилища.
//
// Глубина ответа = глубина родителя + 1.
func (s *Service) CreateReply(ctx context.Context, postID, parentID int64, authorID *int64, content string) (int64, error) {
	const op = "service/comments/CreateReply"

	lg := log.From(ctx).With("op", op, "post_id", postID, "parent_id", parentID)

	if err := s.requireActivePost(ctx, lg, op, postID); err != nil {
		return 0, err
	}

	parent, err := s.storage.CommentByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("parent comment not found")
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return 0, storageFailure(ctx, lg, op, err)
	}

	reply, err := models.NewReply(postID, *parent, authorID, content)
	if err != nil {
		lg.Warn("invalid reply", "err", err)
		return 0, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	if _, err := s.activeAuthor(ctx, lg, op, authorID); err != nil {
		return 0, err
	}

	id, err := s.createComment(ctx, lg, op, reply)
	if err != nil {
		return 0, err
	}

	lg.Info("reply created", "comment_id", id, "depth", reply.Depth)

	return id, nil
}

// ListRootsWithReplies - страница видимых корней поста с активными ответами.
//
// Корни идут от новых к старым, ответы внутри корня от старых к новым.
// Неизвестный пост - пустая страница. Ответы грузятся одним запросом на страницу,
// поэтому между двумя чтениями допустимо окно устаревания.
//
// Ошибки: ErrInvalidArgument (page/size < 0), ErrInternal.
func (s *Service) ListRootsWithReplies(ctx context.Context, postID int64, page, size int) (*models.CommentPage, error) {
	const op = "service/comments/ListRootsWithReplies"

	lg := log.From(ctx).With("op", op, "post_id", postID, "page", page, "size", size)

	req, err := s.pageRequest(page, size)
	if err != nil {
		lg.Warn("invalid page")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roots, err := s.storage.ListVisibleRoots(ctx, postID, req)
	if err != nil {
		return nil, storageFailure(ctx, lg, op, err)
	}

	ids := make([]int64, 0, len(roots.Items))
	for _, r := range roots.Items {
		ids = append(ids, r.ID)
	}

	replies, err := s.storage.ActiveRepliesByParentIDs(ctx, ids)
	if err != nil {
		return nil, storageFailure(ctx, lg, op, err)
	}

	buckets := groupReplies(ids, replies)

	out := &models.CommentPage{
		Items:    make([]models.CommentView, 0, len(roots.Items)),
		Page:     req.Page,
		PageSize: req.Size,
		Total:    roots.Total,
	}
	for _, r := range roots.Items {
		out.Items = append(out.Items, models.NewCommentViewWithReplies(r, buckets[r.ID]))
	}

	return out, nil
}

// groupReplies раскладывает ответы по родителям. Каждый корень из rootIDs
// получает корзину (возможно пустую); порядок ответов сохраняется.
func groupReplies(rootIDs []int64, replies []models.Comment) map[int64][]models.Comment {
	buckets := make(map[int64][]models.Comment, len(rootIDs))
	for _, id := range rootIDs {
		buckets[id] = []models.Comment{}
	}

	for _, r := range replies {
		if r.ParentID == nil {
			continue
		}

		if b, ok := buckets[*r.ParentID]; ok {
			buckets[*r.ParentID] = append(b, r)
		}
	}

	return buckets
}

// Like - атомарный +1 к лайкам ACTIVE-комментария и перечитывание счётчика.
//
// Инкремент и перечитывание идут в одной транзакции, поэтому параллельные лайки
// получают разные значения.
//
// Поведение/ошибки:
//   - ErrNotFound - комментарий отсутствует или не ACTIVE;
//   - ErrNotFound - инкремент прошёл, а перечитать не удалось (логируется как несогласованность);
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) Like(ctx context.Context, postID, commentID int64) (int64, error) {
	const op = "service/comments/Like"

	lg := log.From(ctx).With("op", op, "post_id", postID, "comment_id", commentID)
	lg.Debug("like requested")

	var likes int64
	err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		n, err := tx.IncrementCommentLike(ctx, commentID, postID, models.CommentActive)
		if err != nil {
			return err
		}

		if n == 0 {
			return errUnavailable
		}

		c, err := tx.CommentByIDPostStatus(ctx, commentID, postID, models.CommentActive)
		if err != nil {
			return fmt.Errorf("%w: %w", errReload, err)
		}

		likes = c.LikeCount

		return nil
	})
	if err != nil {
		return 0, s.counterFailure(ctx, lg, op, err)
	}

	s.metrics.Like(metrics.EntityComment)
	lg.Info("comment liked", "like_count", likes)

	return likes, nil
}

// SoftDelete - перевод комментария ACTIVE -> DELETED.
// Повторное удаление и удаление отсутствующего комментария - успешный no-op.
//
// Ошибки: только ErrInternal при сбое хранилища.
func (s *Service) SoftDelete(ctx context.Context, postID, commentID int64) error {
	const op = "service/comments/SoftDelete"

	lg := log.From(ctx).With("op", op, "post_id", postID, "comment_id", commentID)

	n, err := s.storage.TransitionCommentStatus(ctx, commentID, postID, models.CommentActive, models.CommentDeleted)
	if err != nil {
		return storageFailure(ctx, lg, op, err)
	}

	if n == 0 {
		lg.Warn("comment already deleted or not found")
		return nil
	}

	s.metrics.Transition(metrics.EntityComment, string(models.CommentDeleted))
	lg.Info("comment soft-deleted")

	return nil
}

// UpdateContent - замена текста ACTIVE-комментария.
//
// Поведение/ошибки:
//   - ErrNotFound - комментарий отсутствует, не ACTIVE или удалён параллельно;
//   - ErrInvalidArgument - пустой или слишком длинный текст;
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) UpdateContent(ctx context.Context, postID, commentID int64, content string) (*models.CommentView, error) {
	const op = "service/comments/UpdateContent"

	lg := log.From(ctx).With("op", op, "post_id", postID, "comment_id", commentID)

	c, err := s.storage.CommentByIDPostStatus(ctx, commentID, postID, models.CommentActive)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not available")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	if err := c.ChangeContent(content); err != nil {
		lg.Warn("invalid comment", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	n, err := s.storage.UpdateCommentContent(ctx, commentID, postID, c.Content)
	if err != nil {
		return nil, storageFailure(ctx, lg, op, err)
	}

	if n == 0 {
		lg.Warn("comment deleted concurrently")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Info("comment updated")

	view := models.NewCommentView(*c)

	return &view, nil
}

// requireActivePost - пост существует и ACTIVE, иначе ErrNotFound.
func (s *Service) requireActivePost(ctx context.Context, lg *slog.Logger, op string, postID int64) error {
	if _, err := s.storage.PostByIDAndStatus(ctx, postID, models.PostActive); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not available")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return storageFailure(ctx, lg, op, err)
	}

	return nil
}

// createComment сохраняет комментарий. Нарушение ссылочной целостности
// (пост/родитель/автор исчезли между проверкой и вставкой) - ErrNotFound.
func (s *Service) createComment(ctx context.Context, lg *slog.Logger, op string, c models.Comment) (int64, error) {
	id, err := s.storage.CreateComment(ctx, c)
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			lg.Warn("referenced entity disappeared", "err", err)
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return 0, storageFailure(ctx, lg, op, err)
	}

	return id, nil
}
