package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета postgres:
// - поднимают PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют миграции из ./migrations;
// - проверяют предикат видимости корней, порядок, пакетную загрузку ответов,
//   условные апдейты и теги постов.

// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_board.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func mustPost(t *testing.T, st *Storage, title string, authorID *int64) int64 {
	t.Helper()
	p, err := models.NewPost(title, "body of "+title, authorID)
	require.NoError(t, err)
	id, err := st.CreatePost(context.Background(), p)
	require.NoError(t, err)
	return id
}

func mustComment(t *testing.T, st *Storage, postID int64, parentID *int64, content string, at time.Time) int64 {
	t.Helper()
	c := models.Comment{
		PostID:    postID,
		ParentID:  parentID,
		Content:   content,
		Status:    models.CommentActive,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if parentID != nil {
		c.Depth = 1
	}
	id, err := st.CreateComment(context.Background(), c)
	require.NoError(t, err)
	return id
}

func TestIntegration_ListVisibleRoots_Predicate_And_Order(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	postID := mustPost(t, st, "visibility", nil)
	base := time.Now().UTC().Truncate(time.Millisecond)

	r1 := mustComment(t, st, postID, nil, "r1", base.Add(1*time.Second))
	r2 := mustComment(t, st, postID, nil, "r2", base.Add(2*time.Second))
	r3 := mustComment(t, st, postID, nil, "r3", base.Add(3*time.Second))
	c1 := mustComment(t, st, postID, &r2, "c1", base.Add(4*time.Second))
	mustComment(t, st, postID, &r3, "c2", base.Add(5*time.Second))

	// r2 удалён, но у него есть активный ребёнок; r3 удалён, его ребёнок тоже.
	n, err := st.TransitionCommentStatus(ctx, r2, postID, models.CommentActive, models.CommentDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = st.TransitionCommentStatus(ctx, r3, postID, models.CommentActive, models.CommentDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	page, err := st.ListVisibleRoots(ctx, postID, models.PageRequest{Page: 0, Size: 20})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	require.Equal(t, r2, page.Items[0].ID)
	require.Equal(t, models.CommentDeleted, page.Items[0].Status)
	require.Equal(t, r1, page.Items[1].ID)

	replies, err := st.ActiveRepliesByParentIDs(ctx, []int64{r1, r2, r3})
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Equal(t, c1, replies[0].ID)
	require.Equal(t, int32(1), replies[0].Depth)

	// Полная первая страница вынуждает счётный запрос.
	page, err = st.ListVisibleRoots(ctx, postID, models.PageRequest{Page: 0, Size: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, r2, page.Items[0].ID)
}

func TestIntegration_ListVisibleRoots_TieBreakByID(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	postID := mustPost(t, st, "ties", nil)
	at := time.Now().UTC().Truncate(time.Millisecond)

	a := mustComment(t, st, postID, nil, "a", at)
	b := mustComment(t, st, postID, nil, "b", at)

	page, err := st.ListVisibleRoots(context.Background(), postID, models.PageRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, b, page.Items[0].ID)
	require.Equal(t, a, page.Items[1].ID)
}

func TestIntegration_ActiveReplies_EmptyInput(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	replies, err := st.ActiveRepliesByParentIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, replies)
}

func TestIntegration_CommentConditionalUpdates(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	postID := mustPost(t, st, "updates", nil)
	id := mustComment(t, st, postID, nil, "orig", time.Now().UTC())

	n, err := st.UpdateCommentContent(ctx, id, postID, "edited")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// Неверный post_id - ни одной строки.
	n, err = st.IncrementCommentLike(ctx, id, postID+1000, models.CommentActive)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	n, err = st.TransitionCommentStatus(ctx, id, postID, models.CommentActive, models.CommentDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = st.TransitionCommentStatus(ctx, id, postID, models.CommentActive, models.CommentDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	n, err = st.UpdateCommentContent(ctx, id, postID, "after delete")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	got, err := st.CommentByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Content)
	require.Equal(t, models.CommentDeleted, got.Status)

	_, err = st.CommentByIDPostStatus(ctx, id, postID, models.CommentActive)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_CommentLike_ConcurrentDistinctValues(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	postID := mustPost(t, st, "likes", nil)
	id := mustComment(t, st, postID, nil, "like me", time.Now().UTC())

	var wg sync.WaitGroup
	results := make([]int64, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.InTx(ctx, func(tx storage.Storage) error {
				if _, err := tx.IncrementCommentLike(ctx, id, postID, models.CommentActive); err != nil {
					return err
				}
				c, err := tx.CommentByIDPostStatus(ctx, id, postID, models.CommentActive)
				if err != nil {
					return err
				}
				results[i] = c.LikeCount
				return nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.ElementsMatch(t, []int64{1, 2}, results)
}

func TestIntegration_Posts_CRUD_Tags_And_List(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	u, err := models.NewUser("a@example.org", "hash", "alice")
	require.NoError(t, err)
	uid, err := st.CreateUser(ctx, u)
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, u)
	require.ErrorIs(t, err, storage.ErrConflict)

	p, err := models.NewPost("Seoul cafe", "Great Coffee here", &uid)
	require.NoError(t, err)
	region := "Seoul"
	require.NoError(t, p.SetRegion(&region))
	require.NoError(t, p.SetTags([]string{"food", "coffee", "food"}))

	id, err := st.CreatePost(ctx, p)
	require.NoError(t, err)
	mustPost(t, st, "Busan beach", nil)

	got, err := st.PostByIDAndStatus(ctx, id, models.PostActive)
	require.NoError(t, err)
	require.Equal(t, []string{"food", "coffee"}, got.Tags)
	require.NotNil(t, got.Author)
	require.Equal(t, "alice", got.Author.Nickname)

	list, err := st.ListPosts(ctx, models.PostFilter{Region: "Seoul", Keyword: "coffee"}, models.PageRequest{Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, id, list.Items[0].ID)

	got.Title = "Seoul cafe v2"
	got.Tags = []string{"coffee"}
	n, err := st.UpdatePost(ctx, *got)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err = st.PostByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Seoul cafe v2", got.Title)
	require.Equal(t, []string{"coffee"}, got.Tags)

	n, err = st.IncrementPostView(ctx, id, models.PostActive)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = st.TransitionPostStatus(ctx, id, models.PostActive, models.PostDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = st.IncrementPostLike(ctx, id, models.PostActive)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	n, err = st.UpdatePost(ctx, *got)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	_, err = st.PostByIDAndStatus(ctx, id, models.PostActive)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_CreateComment_MissingPost(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.CreateComment(context.Background(), models.Comment{
		PostID:    999999,
		Content:   "orphan",
		Status:    models.CommentActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, storage.ErrForeignKey)
}
