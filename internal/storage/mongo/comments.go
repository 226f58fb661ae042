package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentDoc struct {
	ID        int64     `bson:"_id"`
	PostID    int64     `bson:"post_id"`
	ParentID  *int64    `bson:"parent_id"`
	Depth     int32     `bson:"depth"`
	Content   string    `bson:"content"`
	LikeCount int64     `bson:"like_count"`
	Status    string    `bson:"status"`
	AuthorID  *int64    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d commentDoc) model() models.Comment {
	return models.Comment{
		ID:        d.ID,
		PostID:    d.PostID,
		ParentID:  d.ParentID,
		Depth:     d.Depth,
		Content:   d.Content,
		LikeCount: d.LikeCount,
		Status:    models.CommentStatus(d.Status),
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// withAuthors проставляет ники авторов комментариям.
func (s *Storage) withAuthors(ctx context.Context, docs []commentDoc) ([]models.Comment, error) {
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

	var items []models.Comment
	for _, d := range docs {
		c := d.model()
		if c.AuthorID != nil {
			if nick, ok := nicks[*c.AuthorID]; ok {
				c.Author = &models.AuthorRef{ID: *c.AuthorID, Nickname: nick}
			}
		}

		items = append(items, c)
	}

	return items, nil
}

func (s *Storage) findComment(ctx context.Context, filter bson.D) (*models.Comment, error) {
	var doc commentDoc
	if err := s.comments.FindOne(s.bind(ctx), filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}

	items, err := s.withAuthors(ctx, []commentDoc{doc})
	if err != nil {
		return nil, err
	}

	return &items[0], nil
}

// CreateComment вставляет комментарий. Ссылочная целостность (пост, родитель, автор)
// проверяется явно: storage.ErrForeignKey, если что-то отсутствует.
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (int64, error) {
	const op = "storage/mongo/comments/CreateComment"

	if ok, err := s.exists(ctx, s.posts, comment.PostID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	} else if !ok {
		return 0, fmt.Errorf("%s: post: %w", op, storage.ErrForeignKey)
	}

	if comment.ParentID != nil {
		if ok, err := s.exists(ctx, s.comments, *comment.ParentID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		} else if !ok {
			return 0, fmt.Errorf("%s: parent: %w", op, storage.ErrForeignKey)
		}
	}

	if comment.AuthorID != nil {
		if ok, err := s.exists(ctx, s.users, *comment.AuthorID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		} else if !ok {
			return 0, fmt.Errorf("%s: author: %w", op, storage.ErrForeignKey)
		}
	}

	id, err := s.nextID(ctx, commentsCollection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	doc := commentDoc{
		ID:        id,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Depth:     comment.Depth,
		Content:   comment.Content,
		Status:    string(comment.Status),
		AuthorID:  comment.AuthorID,
		CreatedAt: toMS(comment.CreatedAt),
		UpdatedAt: toMS(comment.UpdatedAt),
	}

	if _, err := s.comments.InsertOne(s.bind(ctx), doc); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, mapError(err))
	}

	return id, nil
}

// CommentByID возвращает комментарий в любом статусе.
func (s *Storage) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const op = "storage/mongo/comments/CommentByID"

	c, err := s.findComment(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// CommentByIDPostStatus - точечное чтение по (id, post_id, status).
func (s *Storage) CommentByIDPostStatus(ctx context.Context, id, postID int64, status models.CommentStatus) (*models.Comment, error) {
	const op = "storage/mongo/comments/CommentByIDPostStatus"

	c, err := s.findComment(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "post_id", Value: postID},
		{Key: "status", Value: string(status)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// UpdateCommentContent меняет текст только у активного комментария.
func (s *Storage) UpdateCommentContent(ctx context.Context, id, postID int64, content string) (int64, error) {
	const op = "storage/mongo/comments/UpdateCommentContent"

	res, err := s.comments.UpdateOne(s.bind(ctx),
		bson.D{
			{Key: "_id", Value: id},
			{Key: "post_id", Value: postID},
			{Key: "status", Value: string(models.CommentActive)},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount, nil
}

// IncrementCommentLike - атомарный $inc like_count при условии статуса.
func (s *Storage) IncrementCommentLike(ctx context.Context, id, postID int64, required models.CommentStatus) (int64, error) {
	const op = "storage/mongo/comments/IncrementCommentLike"

	res, err := s.comments.UpdateOne(s.bind(ctx),
		bson.D{
			{Key: "_id", Value: id},
			{Key: "post_id", Value: postID},
			{Key: "status", Value: string(required)},
		},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "like_count", Value: int64(1)}}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.MatchedCount, nil
}

// TransitionCommentStatus - условная смена статуса from -> to.
func (s *Storage) TransitionCommentStatus(ctx context.Context, id, postID int64, from, to models.CommentStatus) (int64, error) {
	const op = "storage/mongo/comments/TransitionCommentStatus"

	res, err := s.comments.UpdateOne(s.bind(ctx),
		bson.D{
			{Key: "_id", Value: id},
			{Key: "post_id", Value: postID},
			{Key: "status", Value: string(from)},
		},
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

// ListVisibleRoots - один aggregate: $lookup ищет хотя бы одного активного ребёнка,
// $facet отдаёт страницу и total по одному и тому же предикату.
func (s *Storage) ListVisibleRoots(ctx context.Context, postID int64, page models.PageRequest) (*models.RootPage, error) {
	const op = "storage/mongo/comments/ListVisibleRoots"

	active, deleted := string(models.CommentActive), string(models.CommentDeleted)

	items := bson.A{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64(page.Offset())}},
	}
	if page.Size > 0 {
		items = append(items, bson.D{{Key: "$limit", Value: int64(page.Size)}})
	}
	items = append(items, bson.D{{Key: "$project", Value: bson.D{{Key: "active_children", Value: 0}}}})

	pipeline := mongodriver.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "post_id", Value: postID},
			{Key: "parent_id", Value: nil},
			{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{active, deleted}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: commentsCollection},
			{Key: "let", Value: bson.D{{Key: "rid", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$parent_id", "$$rid"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$status", active}}},
				}}}}}}},
				bson.D{{Key: "$limit", Value: 1}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}}}},
			}},
			{Key: "as", Value: "active_children"},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "status", Value: active}},
			bson.D{{Key: "active_children.0", Value: bson.D{{Key: "$exists", Value: true}}}},
		}}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "items", Value: items},
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
		}}},
	}

	cur, err := s.comments.Aggregate(s.bind(ctx), pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Items []commentDoc `bson:"items"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	res := &models.RootPage{}
	if len(out) == 0 {
		return res, nil
	}

	if len(out[0].Total) > 0 {
		res.Total = out[0].Total[0].N
	}

	if res.Items, err = s.withAuthors(ctx, out[0].Items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// ActiveRepliesByParentIDs одним запросом загружает активные ответы для набора корней.
func (s *Storage) ActiveRepliesByParentIDs(ctx context.Context, parentIDs []int64) ([]models.Comment, error) {
	const op = "storage/mongo/comments/ActiveRepliesByParentIDs"

	if len(parentIDs) == 0 {
		return nil, nil
	}

	cur, err := s.comments.Find(s.bind(ctx),
		bson.D{
			{Key: "parent_id", Value: bson.D{{Key: "$in", Value: parentIDs}}},
			{Key: "status", Value: string(models.CommentActive)},
		},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	items, err := s.withAuthors(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
