package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-board/internal/models"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreatePost(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)
		author := int64(2)

		st.EXPECT().UserByIDAndStatus(gomock.Any(), author, models.UserActive).
			Return(&models.User{ID: author, Nickname: "trinity"}, nil)
		st.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p models.Post) (int64, error) {
				require.Equal(t, []string{"go", "db"}, p.Tags)
				require.Equal(t, "Seoul", *p.Region)
				require.Equal(t, models.PostActive, p.Status)
				return 100, nil
			})

		v, err := svc.CreatePost(context.Background(), CreatePostInput{
			Title:     "title",
			Content:   "content",
			Latitude:  ptr(37.5),
			Longitude: ptr(127.0),
			Region:    ptr("Seoul"),
			Tags:      []string{"go", "db", "go"},
			AuthorID:  &author,
		})
		require.NoError(t, err)
		require.Equal(t, int64(100), v.ID)
		require.Equal(t, "trinity", *v.AuthorNickname)
	})

	t.Run("half coordinates", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newMockService(t)

		_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "t", Content: "c", Latitude: ptr(1.0)})
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
	})

	t.Run("inactive author", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().UserByIDAndStatus(gomock.Any(), int64(2), models.UserActive).Return(nil, storage.ErrNotFound)

		_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "t", Content: "c", AuthorID: ptr(int64(2))})
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSearchPosts_PassesFilter(t *testing.T) {
	t.Parallel()

	svc, st, _ := newMockService(t)

	st.EXPECT().ListPosts(gomock.Any(), models.PostFilter{Region: "Busan", Keyword: "coffee"}, models.PageRequest{Page: 1, Size: 5}).
		Return(&models.PostSlice{Items: []models.Post{{ID: 1, Title: "a"}}, Total: 6}, nil)

	page, err := svc.SearchPosts(context.Background(), " Busan ", " coffee ", 1, 5)
	require.NoError(t, err)
	require.EqualValues(t, 6, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "a", page.Items[0].Title)
}

func TestPostDetail(t *testing.T) {
	t.Parallel()

	t.Run("without view", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByIDAndStatus(gomock.Any(), int64(1), models.PostActive).Return(activePost(1), nil)

		v, err := svc.PostDetail(context.Background(), 1, false)
		require.NoError(t, err)
		require.Equal(t, int64(1), v.ID)
	})

	t.Run("with view reloads", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)
		passTx(st)

		reloaded := activePost(1)
		reloaded.ViewCount = 8

		gomock.InOrder(
			st.EXPECT().IncrementPostView(gomock.Any(), int64(1), models.PostActive).Return(int64(1), nil),
			st.EXPECT().PostByIDAndStatus(gomock.Any(), int64(1), models.PostActive).Return(reloaded, nil),
		)

		v, err := svc.PostDetail(context.Background(), 1, true)
		require.NoError(t, err)
		require.Equal(t, int64(8), v.ViewCount)
	})

	t.Run("hidden post", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)
		passTx(st)

		st.EXPECT().IncrementPostView(gomock.Any(), int64(1), models.PostActive).Return(int64(0), nil)

		_, err := svc.PostDetail(context.Background(), 1, true)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLikePost(t *testing.T) {
	t.Parallel()

	svc, st, reg := newMockService(t)
	passTx(st)

	liked := activePost(4)
	liked.LikeCount = 3

	st.EXPECT().IncrementPostLike(gomock.Any(), int64(4), models.PostActive).Return(int64(1), nil)
	st.EXPECT().PostByIDAndStatus(gomock.Any(), int64(4), models.PostActive).Return(liked, nil)

	n, err := svc.LikePost(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	requireCounter(t, reg, "board_likes_total", "Successful like increments.", `{entity="post"}`, 1)
}

func TestUpdatePost(t *testing.T) {
	t.Parallel()

	t.Run("partial", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		current := &models.Post{ID: 1, Title: "old", Content: "body", Region: ptr("Seoul"), Tags: []string{"x"}, Status: models.PostHidden}
		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(current, nil)
		st.EXPECT().UpdatePost(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p models.Post) (int64, error) {
				require.Equal(t, "new", p.Title)
				require.Equal(t, "body", p.Content)
				require.Nil(t, p.Region)
				require.Equal(t, []string{"x"}, p.Tags)
				return 1, nil
			})
		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(
			&models.Post{ID: 1, Title: "new", Content: "body", Tags: []string{"x"}, LikeCount: 5, ViewCount: 9, Status: models.PostHidden}, nil)

		v, err := svc.UpdatePost(context.Background(), 1, UpdatePostInput{Title: ptr("new"), Region: ptr("")})
		require.NoError(t, err)
		require.Equal(t, "new", v.Title)
		require.Equal(t, models.PostHidden, v.Status)
		// Счётчики берутся из перечитанной записи.
		require.Equal(t, int64(5), v.LikeCount)
		require.Equal(t, int64(9), v.ViewCount)
	})

	t.Run("deleted concurrently after update", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(activePost(1), nil)
		st.EXPECT().UpdatePost(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(&models.Post{ID: 1, Status: models.PostDeleted}, nil)

		_, err := svc.UpdatePost(context.Background(), 1, UpdatePostInput{Title: ptr("new")})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(&models.Post{ID: 1, Status: models.PostDeleted}, nil)

		_, err := svc.UpdatePost(context.Background(), 1, UpdatePostInput{Title: ptr("new")})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid title", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(activePost(1), nil)

		_, err := svc.UpdatePost(context.Background(), 1, UpdatePostInput{Title: ptr(" ")})
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestTransitionPost(t *testing.T) {
	t.Parallel()

	t.Run("hide active", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(activePost(1), nil)
		st.EXPECT().TransitionPostStatus(gomock.Any(), int64(1), models.PostActive, models.PostHidden).Return(int64(1), nil)

		require.NoError(t, svc.HidePost(context.Background(), 1))
	})

	t.Run("already deleted is a no-op", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(&models.Post{ID: 1, Status: models.PostDeleted}, nil)

		require.NoError(t, svc.SoftDeletePost(context.Background(), 1))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(nil, storage.ErrNotFound)

		require.ErrorIs(t, svc.ActivatePost(context.Background(), 1), ErrNotFound)
	})

	t.Run("concurrent change", func(t *testing.T) {
		t.Parallel()
		svc, st, _ := newMockService(t)

		st.EXPECT().PostByID(gomock.Any(), int64(1)).Return(&models.Post{ID: 1, Status: models.PostHidden}, nil)
		st.EXPECT().TransitionPostStatus(gomock.Any(), int64(1), models.PostHidden, models.PostActive).Return(int64(0), nil)

		require.ErrorIs(t, svc.ActivatePost(context.Background(), 1), ErrConflict)
	})
}
