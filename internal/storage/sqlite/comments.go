package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
)

const commentColumns = `
c.id, c.post_id, c.parent_id, c.depth, c.content, c.like_count, c.status, c.user_id, u.nickname, c.created_at, c.updated_at
`

// Порядок параметров: post_id, ACTIVE, DELETED, ACTIVE.
const visibleRootsWhere = `
c.post_id = ?
AND c.parent_id IS NULL
AND (
	c.status = ?
	OR (c.status = ? AND EXISTS (
		SELECT 1 FROM comments ch WHERE ch.parent_id = c.id AND ch.status = ?
	))
)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		comment            models.Comment
		parentID, authorID sql.NullInt64
		nickname           sql.NullString
		status             string
		created, updated   int64
	)

	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&parentID,
		&comment.Depth,
		&comment.Content,
		&comment.LikeCount,
		&status,
		&authorID,
		&nickname,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	comment.Status = models.CommentStatus(status)
	comment.CreatedAt = fromUnix(created)
	comment.UpdatedAt = fromUnix(updated)

	if parentID.Valid {
		comment.ParentID = &parentID.Int64
	}

	if authorID.Valid {
		comment.AuthorID = &authorID.Int64
		if nickname.Valid {
			comment.Author = &models.AuthorRef{ID: authorID.Int64, Nickname: nickname.String}
		}
	}

	return &comment, nil
}

// queryComments выполняет запрос и закрывает курсор до возврата:
// при единственном соединении следующий запрос иначе не получит его.
func (s *Storage) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
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
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (int64, error) {
	const op = "storage/sqlite/comments/CreateComment"

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO comments (post_id, parent_id, depth, content, status, user_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		comment.PostID,
		comment.ParentID,
		comment.Depth,
		comment.Content,
		string(comment.Status),
		comment.AuthorID,
		toUnix(comment.CreatedAt),
		toUnix(comment.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CommentByID возвращает комментарий в любом статусе.
func (s *Storage) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const op = "storage/sqlite/comments/CommentByID"

	row := s.db.QueryRowContext(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.id = ?
	`, id)

	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return comment, nil
}

// CommentByIDPostStatus - точечное чтение по (id, post_id, status).
func (s *Storage) CommentByIDPostStatus(ctx context.Context, id, postID int64, status models.CommentStatus) (*models.Comment, error) {
	const op = "storage/sqlite/comments/CommentByIDPostStatus"

	row := s.db.QueryRowContext(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.id = ? AND c.post_id = ? AND c.status = ?
	`, id, postID, string(status))

	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return comment, nil
}

// UpdateCommentContent меняет текст только у активного комментария.
func (s *Storage) UpdateCommentContent(ctx context.Context, id, postID int64, content string) (int64, error) {
	const op = "storage/sqlite/comments/UpdateCommentContent"

	res, err := s.db.ExecContext(ctx, `
	UPDATE comments SET content = ?, updated_at = ?
	WHERE id = ? AND post_id = ? AND status = ?
	`, content, nowUnix(), id, postID, string(models.CommentActive))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return res.RowsAffected()
}

// IncrementCommentLike - атомарный like_count + 1 при условии статуса.
func (s *Storage) IncrementCommentLike(ctx context.Context, id, postID int64, required models.CommentStatus) (int64, error) {
	const op = "storage/sqlite/comments/IncrementCommentLike"

	res, err := s.db.ExecContext(ctx, `
	UPDATE comments SET like_count = like_count + 1
	WHERE id = ? AND post_id = ? AND status = ?
	`, id, postID, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

// TransitionCommentStatus - условная смена статуса from -> to.
func (s *Storage) TransitionCommentStatus(ctx context.Context, id, postID int64, from, to models.CommentStatus) (int64, error) {
	const op = "storage/sqlite/comments/TransitionCommentStatus"

	res, err := s.db.ExecContext(ctx, `
	UPDATE comments SET status = ?, updated_at = ?
	WHERE id = ? AND post_id = ? AND status = ?
	`, string(to), nowUnix(), id, postID, string(from))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

// ListVisibleRoots возвращает страницу видимых корней поста и их общее количество.
func (s *Storage) ListVisibleRoots(ctx context.Context, postID int64, page models.PageRequest) (*models.RootPage, error) {
	const op = "storage/sqlite/comments/ListVisibleRoots"

	active, deleted := string(models.CommentActive), string(models.CommentDeleted)
	args := []any{postID, active, deleted, active}

	items, err := s.queryComments(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE `+visibleRootsWhere+`
	ORDER BY c.created_at DESC, c.id DESC
	LIMIT ? OFFSET ?
	`, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := storage.ResolveTotal(page, len(items), func() (int64, error) {
		var n int64
		err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM comments c WHERE `+visibleRootsWhere, args...).Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	return &models.RootPage{Items: items, Total: total}, nil
}

// ActiveRepliesByParentIDs одним запросом загружает активные ответы для набора корней.
func (s *Storage) ActiveRepliesByParentIDs(ctx context.Context, parentIDs []int64) ([]models.Comment, error) {
	const op = "storage/sqlite/comments/ActiveRepliesByParentIDs"

	if len(parentIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(parentIDs)+1)
	for _, id := range parentIDs {
		args = append(args, id)
	}
	args = append(args, string(models.CommentActive))

	items, err := s.queryComments(ctx, `
	SELECT `+commentColumns+`
	FROM comments c LEFT JOIN users u ON u.id = c.user_id
	WHERE c.parent_id IN (`+placeholders(len(parentIDs))+`) AND c.status = ?
	ORDER BY c.created_at ASC, c.id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
