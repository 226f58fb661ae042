package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postDoc - документ поста; теги хранятся в самом документе в порядке ввода.
type postDoc struct {
	ID        int64     `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Latitude  *float64  `bson:"latitude"`
	Longitude *float64  `bson:"longitude"`
	Region    *string   `bson:"region"`
	Tags      []string  `bson:"tags"`
	Status    string    `bson:"status"`
	LikeCount int64     `bson:"like_count"`
	ViewCount int64     `bson:"view_count"`
	AuthorID  *int64    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d postDoc) model() models.Post {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Post{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Region:    d.Region,
		Tags:      tags,
		Status:    models.PostStatus(d.Status),
		LikeCount: d.LikeCount,
		ViewCount: d.ViewCount,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (s *Storage) postsWithAuthors(ctx context.Context, docs []postDoc) ([]models.Post, error) {
	var ids []int64
	for _, d := range docs {
		if d.AuthorID != nil {
			ids = append(ids, *d.AuthorID)
		}
	}

	nicks, err := s.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	var items []models.Post
	for _, d := range docs {
		p := d.model()
		if p.AuthorID != nil {
			if nick, ok := nicks[*p.AuthorID]; ok {
				p.Author = &models.AuthorRef{ID: *p.AuthorID, Nickname: nick}
			}
		}

		items = append(items, p)
	}

	return items, nil
}

func (s *Storage) findPost(ctx context.Context, filter bson.D) (*models.Post, error) {
	var doc postDoc
	if err := s.posts.FindOne(s.bind(ctx), filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}

	items, err := s.postsWithAuthors(ctx, []postDoc{doc})
	if err != nil {
		return nil, err
	}

	return &items[0], nil
}

// CreatePost вставляет пост. Автор, если задан, должен существовать.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/mongo/posts/CreatePost"

	if post.AuthorID != nil {
		if ok, err := s.exists(ctx, s.users, *post.AuthorID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		} else if !ok {
			return 0, fmt.Errorf("%s: author: %w", op, storage.ErrForeignKey)
		}
	}

	id, err := s.nextID(ctx, postsCollection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	doc := postDoc{
		ID:        id,
		Title:     post.Title,
		Content:   post.Content,
		Latitude:  post.Latitude,
		Longitude: post.Longitude,
		Region:    post.Region,
		Tags:      post.Tags,
		Status:    string(post.Status),
		AuthorID:  post.AuthorID,
		CreatedAt: toMS(post.CreatedAt),
		UpdatedAt: toMS(post.UpdatedAt),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if _, err := s.posts.InsertOne(s.bind(ctx), doc); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, mapError(err))
	}

	return id, nil
}

// PostByID возвращает пост в любом статусе.
func (s *Storage) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	const op = "storage/mongo/posts/PostByID"

	p, err := s.findPost(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// PostByIDAndStatus возвращает пост в заданном статусе.
func (s *Storage) PostByIDAndStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error) {
	const op = "storage/mongo/posts/PostByIDAndStatus"

	p, err := s.findPost(ctx, bson.D{{Key: "_id", Value: id}, {Key: "status", Value: string(status)}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// ListPosts возвращает страницу активных постов с учётом фильтра.
// Ключевое слово ищется как подстрока без учёта регистра (экранированный $regex).
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (*models.PostSlice, error) {
	const op = "storage/mongo/posts/ListPosts"

	q := bson.D{{Key: "status", Value: string(models.PostActive)}}

	if filter.Region != "" {
		q = append(q, bson.E{Key: "region", Value: filter.Region})
	}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		q = append(q, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "content", Value: re}},
		}})
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset()))
	if page.Size > 0 {
		findOpts.SetLimit(int64(page.Size))
	}

	cur, err := s.posts.Find(s.bind(ctx), q, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	items, err := s.postsWithAuthors(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := storage.ResolveTotal(page, len(items), func() (int64, error) {
		return s.posts.CountDocuments(s.bind(ctx), q)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	return &models.PostSlice{Items: items, Total: total}, nil
}

// UpdatePost перезаписывает изменяемые поля у неудалённого поста.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage/mongo/posts/UpdatePost"

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	res, err := s.posts.UpdateOne(s.bind(ctx),
		bson.D{
			{Key: "_id", Value: post.ID},
			{Key: "status", Value: bson.D{{Key: "$ne", Value: string(models.PostDeleted)}}},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: post.Title},
			{Key: "content", Value: post.Content},
			{Key: "latitude", Value: post.Latitude},
			{Key: "longitude", Value: post.Longitude},
			{Key: "region", Value: post.Region},
			{Key: "tags", Value: tags},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount, nil
}

// IncrementPostLike - атомарный $inc like_count при условии статуса.
func (s *Storage) IncrementPostLike(ctx context.Context, id int64, required models.PostStatus) (int64, error) {
	const op = "storage/mongo/posts/IncrementPostLike"

	n, err := s.incPost(ctx, id, required, "like_count")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// IncrementPostView - атомарный $inc view_count при условии статуса.
func (s *Storage) IncrementPostView(ctx context.Context, id int64, required models.PostStatus) (int64, error) {
	const op = "storage/mongo/posts/IncrementPostView"

	n, err := s.incPost(ctx, id, required, "view_count")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// TransitionPostStatus - условная смена статуса поста.
func (s *Storage) TransitionPostStatus(ctx context.Context, id int64, from, to models.PostStatus) (int64, error) {
	const op = "storage/mongo/posts/TransitionPostStatus"

	res, err := s.posts.UpdateOne(s.bind(ctx),
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(to)},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount, nil
}

func (s *Storage) incPost(ctx context.Context, id int64, required models.PostStatus, field string) (int64, error) {
	res, err := s.posts.UpdateOne(s.bind(ctx),
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: string(required)}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: int64(1)}}}},
	)
	if err != nil {
		return 0, err
	}

	return res.MatchedCount, nil
}
