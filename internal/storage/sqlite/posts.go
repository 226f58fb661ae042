package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
)

const postColumns = `
p.id, p.title, p.content, p.latitude, p.longitude, p.region, p.status,
p.like_count, p.view_count, p.user_id, u.nickname, p.created_at, p.updated_at
`

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post             models.Post
		lat, lon         sql.NullFloat64
		region, nickname sql.NullString
		authorID         sql.NullInt64
		status           string
		created, updated int64
	)

	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&lat,
		&lon,
		&region,
		&status,
		&post.LikeCount,
		&post.ViewCount,
		&authorID,
		&nickname,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	post.Status = models.PostStatus(status)
	post.CreatedAt = fromUnix(created)
	post.UpdatedAt = fromUnix(updated)
	post.Tags = []string{}

	if lat.Valid && lon.Valid {
		post.Latitude = &lat.Float64
		post.Longitude = &lon.Float64
	}

	if region.Valid {
		post.Region = &region.String
	}

	if authorID.Valid {
		post.AuthorID = &authorID.Int64
		if nickname.Valid {
			post.Author = &models.AuthorRef{ID: authorID.Int64, Nickname: nickname.String}
		}
	}

	return &post, nil
}

// CreatePost вставляет пост и его теги в одной транзакции.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/sqlite/posts/CreatePost"

	var id int64
	err := s.InTx(ctx, func(tx storage.Storage) error {
		txs := tx.(*Storage)

		res, err := txs.db.ExecContext(ctx, `
		INSERT INTO posts (title, content, latitude, longitude, region, status, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			post.Title,
			post.Content,
			post.Latitude,
			post.Longitude,
			post.Region,
			string(post.Status),
			post.AuthorID,
			toUnix(post.CreatedAt),
			toUnix(post.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		if id, err = res.LastInsertId(); err != nil {
			return err
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
	const op = "storage/sqlite/posts/PostByID"

	row := s.db.QueryRowContext(ctx, `
	SELECT `+postColumns+`
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE p.id = ?
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
	const op = "storage/sqlite/posts/PostByIDAndStatus"

	row := s.db.QueryRowContext(ctx, `
	SELECT `+postColumns+`
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE p.id = ? AND p.status = ?
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
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (*models.PostSlice, error) {
	const op = "storage/sqlite/posts/ListPosts"

	where := []string{"p.status = ?"}
	args := []any{string(models.PostActive)}

	if filter.Region != "" {
		where = append(where, "p.region = ?")
		args = append(args, filter.Region)
	}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		// lower() в SQLite сворачивает только ASCII.
		kw = strings.ToLower(kw)
		where = append(where, "(instr(lower(p.title), ?) > 0 OR instr(lower(p.content), ?) > 0)")
		args = append(args, kw, kw)
	}

	cond := strings.Join(where, " AND ")

	items, err := s.queryPosts(ctx, `
	SELECT `+postColumns+`
	FROM posts p LEFT JOIN users u ON u.id = p.user_id
	WHERE `+cond+`
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT ? OFFSET ?
	`, append(args[:len(args):len(args)], page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := storage.ResolveTotal(page, len(items), func() (int64, error) {
		var n int64
		err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM posts p WHERE `+cond, args...).Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	return &models.PostSlice{Items: items, Total: total}, nil
}

// UpdatePost перезаписывает изменяемые поля и теги у неудалённого поста.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/sqlite/posts/UpdatePost"

	var affected int64
	err := s.InTx(ctx, func(tx storage.Storage) error {
		txs := tx.(*Storage)

		res, err := txs.db.ExecContext(ctx, `
		UPDATE posts
		SET title = ?, content = ?, latitude = ?, longitude = ?, region = ?, updated_at = ?
		WHERE id = ? AND status <> ?
		`,
			post.Title,
			post.Content,
			post.Latitude,
			post.Longitude,
			post.Region,
			nowUnix(),
			post.ID,
			string(models.PostDeleted),
		)
		if err != nil {
			return mapError(err)
		}

		if affected, err = res.RowsAffected(); err != nil {
			return err
		}

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
	const op = "storage/sqlite/posts/IncrementPostLike"

	res, err := s.db.ExecContext(ctx, `
	UPDATE posts SET like_count = like_count + 1 WHERE id = ? AND status = ?
	`, id, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

// IncrementPostView - атомарный view_count + 1 при условии статуса.
func (s *Storage) IncrementPostView(ctx context.Context, id int64, required models.PostStatus) (int64, error) {
	const op = "storage/sqlite/posts/IncrementPostView"

	res, err := s.db.ExecContext(ctx, `
	UPDATE posts SET view_count = view_count + 1 WHERE id = ? AND status = ?
	`, id, string(required))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

// TransitionPostStatus - условная смена статуса поста.
func (s *Storage) TransitionPostStatus(ctx context.Context, id int64, from, to models.PostStatus) (int64, error) {
	const op = "storage/sqlite/posts/TransitionPostStatus"

	res, err := s.db.ExecContext(ctx, `
	UPDATE posts SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`, string(to), nowUnix(), id, string(from))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		items = append(items, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

func (s *Storage) tags(ctx context.Context, postID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}

		tags = append(tags, t)
	}

	return tags, rows.Err()
}

func (s *Storage) replaceTags(ctx context.Context, postID int64, tags []string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}

	for i, t := range tags {
		if _, err := s.db.ExecContext(ctx, `
		INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)
		`, postID, i, t); err != nil {
			return fmt.Errorf("insert tag: %w", mapError(err))
		}
	}

	return nil
}
