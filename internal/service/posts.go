package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-board/internal/metrics"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/pribylovaa/go-board/pkg/log"
)

// CreatePostInput - создание поста. Координаты задаются обе или ни одной.
type CreatePostInput struct {
	Title     string
	Content   string
	Latitude  *float64
	Longitude *float64
	Region    *string
	Tags      []string
	AuthorID  *int64
}

// UpdatePostInput - частичное обновление: nil-поля не меняются.
// Пустой Region сбрасывает регион.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Latitude  *float64
	Longitude *float64
	Region    *string
	Tags      []string
}

// CreatePost - создание активного поста.
//
// Поведение/ошибки:
//   - ErrInvalidArgument - нарушены ограничения заголовка/текста/координат/региона/тегов;
//   - ErrUnauthorized - AuthorID задан, но пользователь не ACTIVE;
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	const op = "service/posts/CreatePost"

	lg := log.From(ctx).With("op", op)

	post, err := models.NewPost(in.Title, in.Content, in.AuthorID)
	if err == nil {
		err = post.SetCoordinates(in.Latitude, in.Longitude)
	}
	if err == nil {
		err = post.SetRegion(in.Region)
	}
	if err == nil {
		err = post.SetTags(in.Tags)
	}
	if err != nil {
		lg.Warn("invalid post", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	author, err := s.activeAuthor(ctx, lg, op, in.AuthorID)
	if err != nil {
		return nil, err
	}

	id, err := s.storage.CreatePost(ctx, post)
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			lg.Warn("author disappeared", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	post.ID = id
	post.Author = author
	lg.Info("post created", "post_id", id, "region", post.Region)

	view := models.NewPostView(post)

	return &view, nil
}

// ListPosts - страница ACTIVE-постов от новых к старым с необязательным фильтром региона.
func (s *Service) ListPosts(ctx context.Context, region string, page, size int) (*models.PostPage, error) {
	const op = "service/posts/ListPosts"

	return s.listPosts(ctx, op, models.PostFilter{Region: strings.TrimSpace(region)}, page, size)
}

// SearchPosts - как ListPosts, плюс подстрока keyword в заголовке или тексте без учёта регистра.
func (s *Service) SearchPosts(ctx context.Context, region, keyword string, page, size int) (*models.PostPage, error) {
	const op = "service/posts/SearchPosts"

	filter := models.PostFilter{
		Region:  strings.TrimSpace(region),
		Keyword: strings.TrimSpace(keyword),
	}

	return s.listPosts(ctx, op, filter, page, size)
}

func (s *Service) listPosts(ctx context.Context, op string, filter models.PostFilter, page, size int) (*models.PostPage, error) {
	lg := log.From(ctx).With("op", op, "region", filter.Region, "keyword", filter.Keyword)

	req, err := s.pageRequest(page, size)
	if err != nil {
		lg.Warn("invalid page", "page", page, "size", size)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.storage.ListPosts(ctx, filter, req)
	if err != nil {
		return nil, storageFailure(ctx, lg, op, err)
	}

	out := &models.PostPage{
		Items:    make([]models.PostListItem, 0, len(res.Items)),
		Page:     req.Page,
		PageSize: req.Size,
		Total:    res.Total,
	}
	for _, p := range res.Items {
		out.Items = append(out.Items, models.NewPostListItem(p))
	}

	return out, nil
}

// PostDetail - карточка ACTIVE-поста. При increaseView просмотр учитывается
// атомарным инкрементом, а карточка перечитывается в той же транзакции.
//
// Ошибки: ErrNotFound (нет поста или не ACTIVE), ErrInternal.
func (s *Service) PostDetail(ctx context.Context, id int64, increaseView bool) (*models.PostView, error) {
	const op = "service/posts/PostDetail"

	lg := log.From(ctx).With("op", op, "post_id", id, "increase_view", increaseView)

	if !increaseView {
		post, err := s.storage.PostByIDAndStatus(ctx, id, models.PostActive)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("post not available")
				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			}

			return nil, storageFailure(ctx, lg, op, err)
		}

		view := models.NewPostView(*post)

		return &view, nil
	}

	post, err := s.bumpPost(ctx, id, storage.PostStorage.IncrementPostView)
	if err != nil {
		return nil, s.counterFailure(ctx, lg, op, err)
	}

	s.metrics.View()
	lg.Debug("view increased", "view_count", post.ViewCount)

	view := models.NewPostView(*post)

	return &view, nil
}

// LikePost - атомарный +1 к лайкам ACTIVE-поста, возвращает новое значение.
//
// Ошибки: ErrNotFound (нет поста, не ACTIVE, либо несогласованность при перечитывании), ErrInternal.
func (s *Service) LikePost(ctx context.Context, id int64) (int64, error) {
	const op = "service/posts/LikePost"

	lg := log.From(ctx).With("op", op, "post_id", id)

	post, err := s.bumpPost(ctx, id, storage.PostStorage.IncrementPostLike)
	if err != nil {
		return 0, s.counterFailure(ctx, lg, op, err)
	}

	s.metrics.Like(metrics.EntityPost)
	lg.Info("post liked", "like_count", post.LikeCount)

	return post.LikeCount, nil
}

// bumpPost выполняет в транзакции условный инкремент inc и перечитывает ACTIVE-пост.
func (s *Service) bumpPost(
	ctx context.Context,
	id int64,
	inc func(storage.PostStorage, context.Context, int64, models.PostStatus) (int64, error),
) (*models.Post, error) {
	var post *models.Post
	err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		n, err := inc(tx, ctx, id, models.PostActive)
		if err != nil {
			return err
		}

		if n == 0 {
			return errUnavailable
		}

		post, err = tx.PostByIDAndStatus(ctx, id, models.PostActive)
		if err != nil {
			return fmt.Errorf("%w: %w", errReload, err)
		}

		return nil
	})

	return post, err
}

// UpdatePost - частичное обновление поста в статусе ACTIVE или HIDDEN.
//
// Поведение/ошибки:
//   - ErrNotFound - поста нет или он DELETED (в том числе удалён параллельно);
//   - ErrInvalidArgument - новые значения нарушают ограничения поста;
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) UpdatePost(ctx context.Context, id int64, in UpdatePostInput) (*models.PostView, error) {
	const op = "service/posts/UpdatePost"

	lg := log.From(ctx).With("op", op, "post_id", id)

	post, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	if post.Status == models.PostDeleted {
		lg.Warn("post deleted")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := applyPostUpdate(post, in); err != nil {
		lg.Warn("invalid post update", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	n, err := s.storage.UpdatePost(ctx, *post)
	if err != nil {
		return nil, storageFailure(ctx, lg, op, err)
	}

	if n == 0 {
		lg.Warn("post deleted concurrently")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Info("post updated")

	fresh, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post vanished after update")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storageFailure(ctx, lg, op, err)
	}

	if fresh.Status == models.PostDeleted {
		lg.Warn("post deleted after update")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	view := models.NewPostView(*fresh)

	return &view, nil
}

func applyPostUpdate(post *models.Post, in UpdatePostInput) error {
	if in.Title != nil {
		if err := post.ChangeTitle(*in.Title); err != nil {
			return err
		}
	}

	if in.Content != nil {
		if err := post.ChangeContent(*in.Content); err != nil {
			return err
		}
	}

	if in.Latitude != nil || in.Longitude != nil {
		if err := post.SetCoordinates(in.Latitude, in.Longitude); err != nil {
			return err
		}
	}

	if in.Region != nil {
		if err := post.SetRegion(in.Region); err != nil {
			return err
		}
	}

	if in.Tags != nil {
		if err := post.SetTags(in.Tags); err != nil {
			return err
		}
	}

	return nil
}

// SoftDeletePost переводит пост в DELETED.
func (s *Service) SoftDeletePost(ctx context.Context, id int64) error {
	return s.transitionPost(ctx, "service/posts/SoftDeletePost", id, models.PostDeleted)
}

// HidePost переводит пост в HIDDEN.
func (s *Service) HidePost(ctx context.Context, id int64) error {
	return s.transitionPost(ctx, "service/posts/HidePost", id, models.PostHidden)
}

// ActivatePost переводит пост в ACTIVE.
func (s *Service) ActivatePost(ctx context.Context, id int64) error {
	return s.transitionPost(ctx, "service/posts/ActivatePost", id, models.PostActive)
}

// transitionPost - смена статуса поста из текущего в to.
//
// Поведение/ошибки:
//   - ErrNotFound - поста нет;
//   - пост уже в статусе to - успешный no-op;
//   - ErrConflict - статус сменился параллельно между чтением и условным апдейтом;
//   - ErrInternal - прочие ошибки хранилища.
func (s *Service) transitionPost(ctx context.Context, op string, id int64, to models.PostStatus) error {
	lg := log.From(ctx).With("op", op, "post_id", id, "to", string(to))

	post, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return storageFailure(ctx, lg, op, err)
	}

	if post.Status == to {
		lg.Debug("post already in target status")
		return nil
	}

	n, err := s.storage.TransitionPostStatus(ctx, id, post.Status, to)
	if err != nil {
		return storageFailure(ctx, lg, op, err)
	}

	if n == 0 {
		lg.Warn("post status changed concurrently", slog.String("from", string(post.Status)))
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}

	s.metrics.Transition(metrics.EntityPost, string(to))
	lg.Info("post status changed", "from", string(post.Status))

	return nil
}
