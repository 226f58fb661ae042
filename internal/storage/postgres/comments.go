package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
)

// commentColumns - единый список колонок для SELECT комментариев (с ником автора),
// чтобы порядок сканирования совпадал во всех запросах.
const commentColumns = `
c.id, c.post_id, c.parent_id, c.depth, c.content, c.like_count, c.status, c.user_id, u.nickname, c.created_at, c.updated_at
`

// visibleRootsWhere - предикат видимости корня: активный, либо удалённый,
// но с хотя бы одним активным ребёнком. $1 - post_id, $2 - ACTIVE, $3 - DELETED.
const visibleRootsWhere = `
c.post_id = $1
AND c.parent_id IS NULL
AND (
	c.status = $2
	OR (c.status = $3 AND EXISTS (
		SELECT 1 FROM comments ch WHERE ch.parent_id = c.id AND ch.status = $2
	))
)
`

// scanComment сканирует одну строку комментария в доменную модель.
func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	var status string
	var nickname *string

	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.ParentID,
		&comment.Depth,
		&comment.Content,
		&comment.LikeCount,
		&status,
		&comment.AuthorID,
		&nickname,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	comment.Status = models.CommentStatus(status)
	comment.CreatedAt = comment.CreatedAt.UTC()
	comment.UpdatedAt = comment.UpdatedAt.UTC()

	if comment.AuthorID != nil && nickname != nil {
		comment.Author = &models.AuthorRef{ID: *comment.AuthorID, Nickname: *nickname}
	}

	return &comment, nil
}

// collectComments вычитывает все строки комментариев.
func collectComments(rows pgx.Rows) ([]models.Comment, error) {
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		items = append(items, *comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

// CreateComment вставляет комментарий.
// Ошибки: storage.ErrForeignKey, если пост/родитель/автор не существуют.
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (int64, error) {
	const op = "storage/postgres/comments/CreateComment"

	var id int64
	err := s.db.QueryRow(ctx, `
	INSERT INTO comments (post_id, parent_id, depth, content, status, user_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
	`,
		comment.PostID,
		comment.ParentID,
		comment.Depth,
		comment.Content,
		string(comment.Status),
		comment.AuthorID,
		comment.CreatedAt.UTC(),
		comment.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return id, nil
}

// CommentByID возвращает комментарий по идентификатору в любом статусе.
func (s *Storage) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const op = "storage/postgres/comments/CommentByID"

	row := s.db.QueryRow(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.id = $1
	`, id)

	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return comment, nil
}

// CommentByIDPostStatus - точечное чтение по (id, post_id, status).
func (s *Storage) CommentByIDPostStatus(ctx context.Context, id, postID int64, status models.CommentStatus) (*models.Comment, error) {
	const op = "storage/postgres/comments/CommentByIDPostStatus"

	row := s.db.QueryRow(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.id = $1 AND c.post_id = $2 AND c.status = $3
	`, id, postID, string(status))

	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return comment, nil
}

// UpdateCommentContent меняет текст только у активного комментария.
func (s *Storage) UpdateCommentContent(ctx context.Context, id, postID int64, content string) (int64, error) {
	const op = "storage/postgres/comments/UpdateCommentContent"

	tag, err := s.db.Exec(ctx, `
	UPDATE comments SET content = $4, updated_at = now()
	WHERE id = $1 AND post_id = $2 AND status = $3
	`, id, postID, string(models.CommentActive), content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return tag.RowsAffected(), nil
}

// IncrementCommentLike - атомарный like_count + 1 при условии статуса.
func (s *Storage) IncrementCommentLike(ctx context.Context, id, postID int64, required models.CommentStatus) (int64, error) {
	const op = "storage/postgres/comments/IncrementCommentLike"

	tag, err := s.db.Exec(ctx, `
	UPDATE comments SET like_count = like_count + 1
	WHERE id = $1 AND post_id = $2 AND status = $3
	`, id, postID, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

// TransitionCommentStatus - условная смена статуса from -> to.
func (s *Storage) TransitionCommentStatus(ctx context.Context, id, postID int64, from, to models.CommentStatus) (int64, error) {
	const op = "storage/postgres/comments/TransitionCommentStatus"

	tag, err := s.db.Exec(ctx, `
	UPDATE comments SET status = $4, updated_at = now()
	WHERE id = $1 AND post_id = $2 AND status = $3
	`, id, postID, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

// ListVisibleRoots возвращает страницу видимых корней поста (created_at DESC, id DESC)
// и их общее количество по тому же предикату.
func (s *Storage) ListVisibleRoots(ctx context.Context, postID int64, page models.PageRequest) (*models.RootPage, error) {
	const op = "storage/postgres/comments/ListVisibleRoots"

	active, deleted := string(models.CommentActive), string(models.CommentDeleted)

	rows, err := s.db.Query(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE `+visibleRootsWhere+`
	ORDER BY c.created_at DESC, c.id DESC
	LIMIT $4 OFFSET $5
	`, postID, active, deleted, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := collectComments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := storage.ResolveTotal(page, len(items), func() (int64, error) {
		var n int64
		err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM comments c WHERE `+visibleRootsWhere,
			postID, active, deleted,
		).Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	return &models.RootPage{Items: items, Total: total}, nil
}

// ActiveRepliesByParentIDs одним запросом загружает активные ответы для набора корней.
func (s *Storage) ActiveRepliesByParentIDs(ctx context.Context, parentIDs []int64) ([]models.Comment, error) {
	const op = "storage/postgres/comments/ActiveRepliesByParentIDs"

	if len(parentIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.parent_id = ANY($1) AND c.status = $2
	ORDER BY c.created_at ASC, c.id ASC
	`, parentIDs, string(models.CommentActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := collectComments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
