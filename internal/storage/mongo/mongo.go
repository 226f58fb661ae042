// mongo предоставляет реализацию storage.Storage на базе MongoDB.
// Идентификаторы - int64 из коллекции counters; InTx требует replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-board/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"
	usersCollection    = "users"
	countersCollection = "counters"
	defaultDBName      = "board"
)

// Storage - адаптер MongoDB. Внутри InTx sess указывает на активную сессию.
type Storage struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	posts    *mongodriver.Collection
	comments *mongodriver.Collection
	users    *mongodriver.Collection
	counters *mongodriver.Collection
	sess     mongodriver.Session
}

// New подключается к MongoDB, проверяет соединение и создаёт индексы.
func New(ctx context.Context, uri string) (*Storage, error) {
	const op = "storage/mongo/New"

	if uri == "" {
		return nil, fmt.Errorf("%s: empty uri", op)
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	db := cli.Database(databaseFromURI(uri))

	s := &Storage{
		client:   cli,
		db:       db,
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// Close отключает клиента.
func (s *Storage) Close() {
	_ = s.client.Disconnect(context.Background())
}

// Ping проверяет доступность primary.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// InTx выполняет fn в транзакции сессии. WithTransaction повторяет fn
// при TransientTransactionError (например, WriteConflict при параллельных лайках).
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	const op = "storage/mongo/InTx"

	if s.sess != nil {
		return fn(s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("%s: start session: %w", op, err)
	}
	defer sess.EndSession(context.Background())

	txs := *s
	txs.sess = sess

	_, err = sess.WithTransaction(ctx, func(_ mongodriver.SessionContext) (any, error) {
		return nil, fn(&txs)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// bind привязывает контекст операции к сессии транзакции, если она есть.
func (s *Storage) bind(ctx context.Context) context.Context {
	if s.sess == nil {
		return ctx
	}

	return mongodriver.NewSessionContext(ctx, s.sess)
}

// ensureIndexes создаёт индексы, необходимые board-сервису.
//   - users: уникальный email;
//   - posts: лента по (status, created_at desc, _id desc) и фильтр по региону;
//   - comments: страница корней и пакетная загрузка ответов.
func (s *Storage) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uk_email").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("ensure users indexes: %w", err)
	}

	if _, err := s.posts.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("status_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "region", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("region_created_desc"),
		},
	}); err != nil {
		return fmt.Errorf("ensure posts indexes: %w", err)
	}

	if _, err := s.comments.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("post_parent_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("parent_status_created_asc"),
		},
	}); err != nil {
		return fmt.Errorf("ensure comments indexes: %w", err)
	}

	return nil
}

// nextID атомарно выдаёт следующий идентификатор для коллекции name.
func (s *Storage) nextID(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(
		s.bind(ctx),
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", name, err)
	}

	return doc.Seq, nil
}

// exists сообщает, есть ли в коллекции документ с данным _id.
func (s *Storage) exists(ctx context.Context, coll *mongodriver.Collection, id int64) (bool, error) {
	n, err := coll.CountDocuments(s.bind(ctx), bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// authors загружает ники авторов одним запросом.
func (s *Storage) authors(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.users.Find(s.bind(ctx),
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		options.Find().SetProjection(bson.D{{Key: "nickname", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("authors: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u struct {
			ID       int64  `bson:"_id"`
			Nickname string `bson:"nickname"`
		}
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("authors: decode: %w", err)
		}

		out[u.ID] = u.Nickname
	}

	return out, cur.Err()
}

// mapError переводит ошибки драйвера в ошибки уровня storage.
func mapError(err error) error {
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return storage.ErrNotFound
	}

	if mongodriver.IsDuplicateKeyError(err) {
		return storage.ErrConflict
	}

	return err
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// databaseFromURI извлекает имя базы из пути URI; по умолчанию - defaultDBName.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

var _ storage.Storage = (*Storage)(nil)
