package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
)

const postColumns = `
p.id, p.title, p.content, p.latitude, p.longitude, p.region, p.status,
p.like_count, p.view_count, p.user_id, u.nickname, p.created_at, p.updated_at
`

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	var status string
	var nickname *string

	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Latitude,
		&post.Longitude,
		&post.Region,
		&status,
		&post.LikeCount,
		&post.ViewCount,
		&post.AuthorID,
		&nickname,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	post.Status = models.PostStatus(status)
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	post.Tags = []string{}

	if post.AuthorID != nil && nickname != nil {
		post.Author = &models.AuthorRef{ID: *post.AuthorID, Nickname: *nickname}
	}

	return &post, nil
}

// CreatePost вставляет пост и его теги в одной транзакции.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/postgres/posts/CreatePost"

	var id int64
	err := s.InTx(ctx, func(tx storage.Storage) error {
		txs := tx.(*Storage)

		err := txs.db.QueryRow(ctx, `
		INSERT INTO posts (title, content, latitude, longitude, region, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
		`,
			post.Title,
			post.Content,
			post.Latitude,
			post.Longitude,
			post.Region,
			string(post.Status),
			post.AuthorID,
			post.CreatedAt.UTC(),
			post.UpdatedAt.UTC(),
		).Scan(&id)
		if err != nil {
			return mapError(err)
		}

		return txs.replaceTags(ctx, id, post.Tags)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// PostByID возвращает пост в любом статусе вместе с тегами.
func (s *Storage) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	const op = "storage/postgres/posts/PostByID"

	row := s.db.QueryRow(ctx, `
	SELECT `+postColumns+`
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE p.id = $1
	`, id)

	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if post.Tags, err = s.tags(ctx, post.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// PostByIDAndStatus возвращает пост в заданном статусе вместе с тегами.
func (s *Storage) PostByIDAndStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error) {
	const op = "storage/postgres/posts/PostByIDAndStatus"

	row := s.db.QueryRow(ctx, `
	SELECT `+postColumns+`
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE p.id = $1 AND p.status = $2
	`, id, string(status))

	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if post.Tags, err = s.tags(ctx, post.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// ListPosts возвращает страницу активных постов с учётом фильтра.
// Теги в списке не загружаются.
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (*models.PostSlice, error) {
	const op = "storage/postgres/posts/ListPosts"

	where := []string{"p.status = $1"}
	args := []any{string(models.PostActive)}

	if filter.Region != "" {
		args = append(args, filter.Region)
		where = append(where, fmt.Sprintf("p.region = $%d", len(args)))
	}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		args = append(args, strings.ToLower(kw))
		n := len(args)
		where = append(where, fmt.Sprintf("(strpos(lower(p.title), $%d) > 0 OR strpos(lower(p.content), $%d) > 0)", n, n))
	}

	cond := strings.Join(where, " AND ")

	query := `
	SELECT ` + postColumns + `
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE ` + cond + fmt.Sprintf(`
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)

	rows, err := s.db.Query(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		items = append(items, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	total, err := storage.ResolveTotal(page, len(items), func() (int64, error) {
		var n int64
		err := s.db.QueryRow(ctx, `SELECT count(*) FROM posts p WHERE `+cond, args...).Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	return &models.PostSlice{Items: items, Total: total}, nil
}

// UpdatePost перезаписывает изменяемые поля и теги у неудалённого поста.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/postgres/posts/UpdatePost"

	var affected int64
	err := s.InTx(ctx, func(tx storage.Storage) error {
		txs := tx.(*Storage)

		tag, err := txs.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, latitude = $4, longitude = $5, region = $6, updated_at = now()
		WHERE id = $1 AND status <> $7
		`,
			post.ID,
			post.Title,
			post.Content,
			post.Latitude,
			post.Longitude,
			post.Region,
			string(models.PostDeleted),
		)
		if err != nil {
			return mapError(err)
		}

		affected = tag.RowsAffected()
		if affected == 0 {
			return nil
		}

		return txs.replaceTags(ctx, post.ID, post.Tags)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}

// IncrementPostLike - атомарный like_count + 1 при условии статуса.
func (s *Storage) IncrementPostLike(ctx context.Context, id int64, required models.PostStatus) (int64, error) {
	const op = "storage/postgres/posts/IncrementPostLike"

	tag, err := s.db.Exec(ctx, `
	UPDATE posts SET like_count = like_count + 1
	WHERE id = $1 AND status = $2
	`, id, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

// IncrementPostView - атомарный view_count + 1 при условии статуса.
func (s *Storage) IncrementPostView(ctx context.Context, id int64, required models.PostStatus) (int64, error) {
	const op = "storage/postgres/posts/IncrementPostView"

	tag, err := s.db.Exec(ctx, `
	UPDATE posts SET view_count = view_count + 1
	WHERE id = $1 AND status = $2
	`, id, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

// TransitionPostStatus - условная смена статуса поста.
func (s *Storage) TransitionPostStatus(ctx context.Context, id int64, from, to models.PostStatus) (int64, error) {
	const op = "storage/postgres/posts/TransitionPostStatus"

	tag, err := s.db.Exec(ctx, `
	UPDATE posts SET status = $3, updated_at = now()
	WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (s *Storage) tags(ctx context.Context, postID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
	SELECT tag FROM post_tags WHERE post_id = $1 ORDER BY position
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	if tags == nil {
		tags = []string{}
	}

	return tags, nil
}

// replaceTags вызывается только внутри транзакции.
func (s *Storage) replaceTags(ctx context.Context, postID int64, tags []string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}

	if len(tags) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, t := range tags {
		batch.Queue(`INSERT INTO post_tags (post_id, position, tag) VALUES ($1, $2, $3)`, postID, i, t)
	}

	tx, ok := s.db.(pgx.Tx)
	if !ok {
		return fmt.Errorf("replace tags: not in transaction")
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert tags: %w", mapError(err))
	}

	return nil
}
