// Package models содержит доменные сущности board-сервиса и их инварианты.
package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DeletedPlaceholder - текст, который отдаётся наружу вместо содержимого удалённого комментария.
const DeletedPlaceholder = "(deleted comment)"

// MaxCommentContent - максимальная длина комментария в символах (рунах).
const MaxCommentContent = 1000

var (
	// ErrInvalidContent - пустой или слишком длинный текст комментария.
	ErrInvalidContent = errors.New("invalid comment content")
	// ErrParentPostMismatch - родитель принадлежит другому посту.
	ErrParentPostMismatch = errors.New("parent comment belongs to a different post")
	// ErrParentNotActive - попытка ответить под удалённым родителем.
	ErrParentNotActive = errors.New("parent comment is not active")
	// ErrCommentNotActive - изменение удалённого комментария.
	ErrCommentNotActive = errors.New("comment is not active")
	// ErrMissingPost - комментарий без поста.
	ErrMissingPost = errors.New("post id is required")
)

// CommentStatus - статус комментария. Единственный переход: ACTIVE -> DELETED.
type CommentStatus string

const (
	CommentActive  CommentStatus = "ACTIVE"
	CommentDeleted CommentStatus = "DELETED"
)

// Valid сообщает, является ли статус известным.
func (s CommentStatus) Valid() bool {
	return s == CommentActive || s == CommentDeleted
}

// AuthorRef - необязательная проекция автора для выдачи (id + ник).
type AuthorRef struct {
	ID       int64
	Nickname string
}

// Comment - доменная модель комментария.
// Важно:
//   - PostID неизменяем после создания;
//   - ParentID == nil означает корневой комментарий;
//   - Depth вычисляется один раз в NewRootComment/NewReply и не выставляется напрямую;
//   - после удаления Content хранится как есть, но наружу отдаётся DeletedPlaceholder;
//   - Author заполняется хранилищем при чтении (LEFT JOIN users), при записи не используется.
type Comment struct {
	ID        int64
	PostID    int64
	ParentID  *int64
	Depth     int32
	Content   string
	LikeCount int64
	Status    CommentStatus
	AuthorID  *int64
	Author    *AuthorRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRootComment собирает корневой комментарий глубины 0.
func NewRootComment(postID int64, authorID *int64, content string) (Comment, error) {
	if postID <= 0 {
		return Comment{}, ErrMissingPost
	}

	if err := validateCommentContent(content); err != nil {
		return Comment{}, err
	}

	now := time.Now().UTC()

	return Comment{
		PostID:    postID,
		Depth:     0,
		Content:   content,
		Status:    CommentActive,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewReply собирает ответ на parent внутри поста postID.
// Ответ получает Depth = parent.Depth + 1; родитель обязан принадлежать тому же посту
// и быть активным.
func NewReply(postID int64, parent Comment, authorID *int64, content string) (Comment, error) {
	if postID <= 0 {
		return Comment{}, ErrMissingPost
	}

	if parent.PostID != postID {
		return Comment{}, ErrParentPostMismatch
	}

	if parent.Status != CommentActive {
		return Comment{}, ErrParentNotActive
	}

	if err := validateCommentContent(content); err != nil {
		return Comment{}, err
	}

	now := time.Now().UTC()
	parentID := parent.ID

	return Comment{
		PostID:    postID,
		ParentID:  &parentID,
		Depth:     parent.Depth + 1,
		Content:   content,
		Status:    CommentActive,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsRoot сообщает, является ли комментарий корневым.
func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}

// ChangeContent меняет текст активного комментария.
func (c *Comment) ChangeContent(content string) error {
	if c.Status != CommentActive {
		return ErrCommentNotActive
	}

	if err := validateCommentContent(content); err != nil {
		return err
	}

	c.Content = content
	c.UpdatedAt = time.Now().UTC()

	return nil
}

// DisplayContent - текст для выдачи: у удалённых подменяется плейсхолдером.
func (c Comment) DisplayContent() string {
	if c.Status == CommentDeleted {
		return DeletedPlaceholder
	}

	return c.Content
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrInvalidContent
	}

	if utf8.RuneCountInString(content) > MaxCommentContent {
		return ErrInvalidContent
	}

	return nil
}

// CommentView - представление комментария для выдачи наружу.
// Content уже замаскирован, Replies у ответов всегда пустой.
type CommentView struct {
	ID             int64         `json:"id"`
	ParentID       *int64        `json:"parent_id"`
	Depth          int32         `json:"depth"`
	Content        string        `json:"content"`
	LikeCount      int64         `json:"like_count"`
	Status         CommentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	AuthorID       *int64        `json:"author_id"`
	AuthorNickname *string       `json:"author_nickname"`
	Replies        []CommentView `json:"replies"`
}

// NewCommentView строит представление с пустым списком ответов.
func NewCommentView(c Comment) CommentView {
	v := CommentView{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Depth:     c.Depth,
		Content:   c.DisplayContent(),
		LikeCount: c.LikeCount,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		AuthorID:  c.AuthorID,
		Replies:   []CommentView{},
	}

	if c.Author != nil {
		id := c.Author.ID
		nick := c.Author.Nickname
		v.AuthorID = &id
		v.AuthorNickname = &nick
	}

	return v
}

// NewCommentViewWithReplies строит представление корня с уже отобранными ответами.
func NewCommentViewWithReplies(root Comment, replies []Comment) CommentView {
	v := NewCommentView(root)
	v.Replies = make([]CommentView, 0, len(replies))
	for _, r := range replies {
		v.Replies = append(v.Replies, NewCommentView(r))
	}

	return v
}

// CommentPage - страница корней с вложенными ответами.
type CommentPage struct {
	Items    []CommentView `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// RootPage - сырая страница корней из движка видимости.
type RootPage struct {
	Items []Comment
	Total int64
}
