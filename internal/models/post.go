package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxPostTitle   = 120
	MaxPostContent = 4000
	MaxRegion      = 120
	MaxTag         = 40
	MaxTags        = 50
)

var (
	// ErrInvalidTitle - пустой или слишком длинный заголовок.
	ErrInvalidTitle = errors.New("invalid post title")
	// ErrInvalidPostContent - пустой или слишком длинный текст поста.
	ErrInvalidPostContent = errors.New("invalid post content")
	// ErrInvalidCoordinates - координаты заданы частично или вне диапазона.
	ErrInvalidCoordinates = errors.New("latitude and longitude must be provided together")
	// ErrInvalidRegion - регион из одних пробелов или слишком длинный.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidTags - слишком много тегов или тег из одних пробелов.
	ErrInvalidTags = errors.New("invalid tags")
)

// PostStatus - статус видимости поста.
type PostStatus string

const (
	PostActive  PostStatus = "ACTIVE"
	PostHidden  PostStatus = "HIDDEN"
	PostDeleted PostStatus = "DELETED"
)

// Valid сообщает, является ли статус известным.
func (s PostStatus) Valid() bool {
	switch s {
	case PostActive, PostHidden, PostDeleted:
		return true
	default:
		return false
	}
}

// Post - доменная модель поста.
// Физически посты не удаляются: удаление, скрытие и активация - смена Status.
// Счётчики LikeCount/ViewCount меняются только атомарными апдейтами в хранилище.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Latitude  *float64
	Longitude *float64
	Region    *string
	Tags      []string
	Status    PostStatus
	LikeCount int64
	ViewCount int64
	AuthorID  *int64
	Author    *AuthorRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost собирает активный пост с проверкой заголовка и текста.
func NewPost(title, content string, authorID *int64) (Post, error) {
	p := Post{
		Status:   PostActive,
		AuthorID: authorID,
		Tags:     []string{},
	}

	if err := p.ChangeTitle(title); err != nil {
		return Post{}, err
	}

	if err := p.ChangeContent(content); err != nil {
		return Post{}, err
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return p, nil
}

// ChangeTitle меняет заголовок (не пустой, <= MaxPostTitle символов).
func (p *Post) ChangeTitle(title string) error {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) > MaxPostTitle {
		return ErrInvalidTitle
	}

	p.Title = title

	return nil
}

// ChangeContent меняет текст поста (не пустой, <= MaxPostContent символов).
func (p *Post) ChangeContent(content string) error {
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) > MaxPostContent {
		return ErrInvalidPostContent
	}

	p.Content = content

	return nil
}

// SetCoordinates выставляет координаты: либо обе, либо ни одной.
func (p *Post) SetCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return ErrInvalidCoordinates
	}

	if lat != nil && (*lat < -90 || *lat > 90 || *lon < -180 || *lon > 180) {
		return ErrInvalidCoordinates
	}

	p.Latitude = lat
	p.Longitude = lon

	return nil
}

// SetRegion выставляет регион; nil или пустая строка сбрасывают его.
func (p *Post) SetRegion(region *string) error {
	if region == nil || *region == "" {
		p.Region = nil
		return nil
	}

	if strings.TrimSpace(*region) == "" || utf8.RuneCountInString(*region) > MaxRegion {
		return ErrInvalidRegion
	}

	r := *region
	p.Region = &r

	return nil
}

// SetTags заменяет теги. Пустые и длиннее MaxTag отбрасываются,
// дубликаты схлопываются с сохранением порядка первого вхождения.
func (p *Post) SetTags(tags []string) error {
	if len(tags) > MaxTags {
		return ErrInvalidTags
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" || utf8.RuneCountInString(t) > MaxTag {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	p.Tags = out

	return nil
}

// PostFilter - фильтр списка постов. Пустые поля не ограничивают выдачу.
type PostFilter struct {
	Region  string
	Keyword string
}

// PostView - полное представление поста.
type PostView struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Region         *string    `json:"region"`
	Tags           []string   `json:"tags"`
	LikeCount      int64      `json:"like_count"`
	ViewCount      int64      `json:"view_count"`
	Status         PostStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	AuthorID       *int64     `json:"author_id"`
	AuthorNickname *string    `json:"author_nickname"`
}

// NewPostView строит представление поста (теги копируются).
func NewPostView(p Post) PostView {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)

	v := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Region:    p.Region,
		Tags:      tags,
		LikeCount: p.LikeCount,
		ViewCount: p.ViewCount,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	v.AuthorID, v.AuthorNickname = authorFields(p.AuthorID, p.Author)

	return v
}

// PostListItem - облегчённое представление для списков (без текста и тегов).
type PostListItem struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Region         *string    `json:"region"`
	Status         PostStatus `json:"status"`
	LikeCount      int64      `json:"like_count"`
	ViewCount      int64      `json:"view_count"`
	CreatedAt      time.Time  `json:"created_at"`
	AuthorID       *int64     `json:"author_id"`
	AuthorNickname *string    `json:"author_nickname"`
}

// NewPostListItem строит элемент списка постов.
func NewPostListItem(p Post) PostListItem {
	v := PostListItem{
		ID:        p.ID,
		Title:     p.Title,
		Region:    p.Region,
		Status:    p.Status,
		LikeCount: p.LikeCount,
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt,
	}
	v.AuthorID, v.AuthorNickname = authorFields(p.AuthorID, p.Author)

	return v
}

// PostPage - страница постов.
type PostPage struct {
	Items    []PostListItem `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
}

// PostSlice - сырая страница постов из хранилища.
type PostSlice struct {
	Items []Post
	Total int64
}

func authorFields(authorID *int64, author *AuthorRef) (*int64, *string) {
	if author == nil {
		return authorID, nil
	}

	id := author.ID
	nick := author.Nickname

	return &id, &nick
}
