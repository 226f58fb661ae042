package models

// Тесты доменных инвариантов:
//  - глубина ответа = глубина родителя + 1 на цепочке root -> reply -> reply;
//  - ответ в чужой пост и под удалённым родителем запрещены;
//  - валидация текста (пустота/длина в рунах);
//  - маскирование удалённого текста в представлении;
//  - нормализация тегов, координат и региона поста.

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRootComment_DepthZero(t *testing.T) {
	t.Parallel()

	author := int64(7)
	c, err := NewRootComment(1, &author, "hello")
	require.NoError(t, err)
	require.True(t, c.IsRoot())
	require.Equal(t, int32(0), c.Depth)
	require.Equal(t, CommentActive, c.Status)
	require.Equal(t, int64(1), c.PostID)
	require.Equal(t, &author, c.AuthorID)
	require.False(t, c.CreatedAt.IsZero())
}

func TestNewReply_DepthChain(t *testing.T) {
	t.Parallel()

	root, err := NewRootComment(1, nil, "root")
	require.NoError(t, err)
	root.ID = 10

	reply, err := NewReply(1, root, nil, "reply")
	require.NoError(t, err)
	reply.ID = 11
	require.Equal(t, int32(1), reply.Depth)
	require.Equal(t, int64(10), *reply.ParentID)

	nested, err := NewReply(1, reply, nil, "reply to reply")
	require.NoError(t, err)
	require.Equal(t, int32(2), nested.Depth)
	require.Equal(t, int64(11), *nested.ParentID)
}

func TestNewReply_Rejections(t *testing.T) {
	t.Parallel()

	parent := Comment{ID: 5, PostID: 1, Status: CommentActive}

	_, err := NewReply(2, parent, nil, "x")
	require.ErrorIs(t, err, ErrParentPostMismatch)

	deleted := parent
	deleted.Status = CommentDeleted
	_, err = NewReply(1, deleted, nil, "x")
	require.ErrorIs(t, err, ErrParentNotActive)

	_, err = NewReply(1, parent, nil, "   ")
	require.ErrorIs(t, err, ErrInvalidContent)

	_, err = NewReply(0, parent, nil, "x")
	require.ErrorIs(t, err, ErrMissingPost)
}

func TestCommentContent_Length(t *testing.T) {
	t.Parallel()

	// 1000 многобайтовых символов - допустимо, длина считается в рунах.
	ok := strings.Repeat("я", MaxCommentContent)
	_, err := NewRootComment(1, nil, ok)
	require.NoError(t, err)

	_, err = NewRootComment(1, nil, ok+"я")
	require.ErrorIs(t, err, ErrInvalidContent)

	_, err = NewRootComment(1, nil, "")
	require.ErrorIs(t, err, ErrInvalidContent)
}

func TestChangeContent(t *testing.T) {
	t.Parallel()

	c, err := NewRootComment(1, nil, "before")
	require.NoError(t, err)

	require.NoError(t, c.ChangeContent("after"))
	require.Equal(t, "after", c.Content)

	require.ErrorIs(t, c.ChangeContent(" "), ErrInvalidContent)
	require.Equal(t, "after", c.Content)

	c.Status = CommentDeleted
	require.ErrorIs(t, c.ChangeContent("again"), ErrCommentNotActive)
}

func TestCommentView_MasksDeleted(t *testing.T) {
	t.Parallel()

	root := Comment{ID: 1, PostID: 1, Content: "secret", Status: CommentDeleted}
	reply := Comment{ID: 2, PostID: 1, ParentID: &root.ID, Depth: 1, Content: "hi", Status: CommentActive,
		Author: &AuthorRef{ID: 3, Nickname: "bob"}}

	v := NewCommentViewWithReplies(root, []Comment{reply})
	require.Equal(t, DeletedPlaceholder, v.Content)
	require.Nil(t, v.AuthorID)
	require.Nil(t, v.AuthorNickname)
	require.Len(t, v.Replies, 1)
	require.Equal(t, "hi", v.Replies[0].Content)
	require.Equal(t, "bob", *v.Replies[0].AuthorNickname)
	require.Equal(t, int64(3), *v.Replies[0].AuthorID)
	require.NotNil(t, v.Replies[0].Replies)

	// Исходный текст не теряется - маскируется только выдача.
	require.Equal(t, "secret", root.Content)
}

func TestNewPost_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewPost(" ", "content", nil)
	require.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewPost(strings.Repeat("t", MaxPostTitle+1), "content", nil)
	require.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewPost("title", "", nil)
	require.ErrorIs(t, err, ErrInvalidPostContent)

	p, err := NewPost("title", "content", nil)
	require.NoError(t, err)
	require.Equal(t, PostActive, p.Status)
	require.Empty(t, p.Tags)
}

func TestPost_SetTags_DedupPreservesOrder(t *testing.T) {
	t.Parallel()

	p, err := NewPost("t", "c", nil)
	require.NoError(t, err)

	long := strings.Repeat("x", MaxTag+1)
	require.NoError(t, p.SetTags([]string{"go", "  ", "sql", "go", long, "api", "sql"}))
	require.Equal(t, []string{"go", "sql", "api"}, p.Tags)

	tooMany := make([]string, MaxTags+1)
	for i := range tooMany {
		tooMany[i] = "t"
	}
	require.ErrorIs(t, p.SetTags(tooMany), ErrInvalidTags)
}

func TestPost_SetCoordinates_BothOrNeither(t *testing.T) {
	t.Parallel()

	p, err := NewPost("t", "c", nil)
	require.NoError(t, err)

	lat, lon := 37.5, 127.0
	require.ErrorIs(t, p.SetCoordinates(&lat, nil), ErrInvalidCoordinates)
	require.ErrorIs(t, p.SetCoordinates(nil, &lon), ErrInvalidCoordinates)

	bad := 120.0
	require.ErrorIs(t, p.SetCoordinates(&bad, &lon), ErrInvalidCoordinates)

	require.NoError(t, p.SetCoordinates(&lat, &lon))
	require.Equal(t, lat, *p.Latitude)

	require.NoError(t, p.SetCoordinates(nil, nil))
	require.Nil(t, p.Latitude)
	require.Nil(t, p.Longitude)
}

func TestPost_SetRegion(t *testing.T) {
	t.Parallel()

	p, err := NewPost("t", "c", nil)
	require.NoError(t, err)

	blank := "   "
	require.ErrorIs(t, p.SetRegion(&blank), ErrInvalidRegion)

	seoul := "Seoul"
	require.NoError(t, p.SetRegion(&seoul))
	require.Equal(t, "Seoul", *p.Region)

	empty := ""
	require.NoError(t, p.SetRegion(&empty))
	require.Nil(t, p.Region)
}

func TestNewUser_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewUser("", "hash", "nick")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("a@b.c", "", "nick")
	require.ErrorIs(t, err, ErrInvalidPasswordHash)

	_, err = NewUser("a@b.c", "hash", strings.Repeat("n", MaxNickname+1))
	require.ErrorIs(t, err, ErrInvalidNickname)

	u, err := NewUser("a@b.c", "hash", "nick")
	require.NoError(t, err)
	require.Equal(t, UserActive, u.Status)
	require.Equal(t, "nick", NewUserView(u).Nickname)
}

func TestPageRequest_Offset(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, PageRequest{Page: 0, Size: 20}.Offset())
	require.Equal(t, 40, PageRequest{Page: 2, Size: 20}.Offset())
	require.Equal(t, 0, PageRequest{Page: -1, Size: 20}.Offset())

	// Огромный номер страницы не переполняет смещение.
	require.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt/20 + 1, Size: 20}.Offset())
	require.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt, Size: 1 << 10}.Offset())
	require.Equal(t, math.MaxInt/20*20, PageRequest{Page: math.MaxInt / 20, Size: 20}.Offset())
}
