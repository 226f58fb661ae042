// storage определяет контракты доступа к БД для board-сервиса.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-board/internal/models"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict - конфликт уникальности (например, email пользователя).
	ErrConflict = errors.New("conflict")
	// ErrForeignKey - ссылка на несуществующий пост/комментарий/пользователя.
	ErrForeignKey = errors.New("foreign key violation")
)

// PostStorage описывает операции над постами.
type PostStorage interface {
	// CreatePost вставляет пост вместе с тегами и возвращает присвоенный id.
	CreatePost(ctx context.Context, post models.Post) (int64, error)

	// PostByID - точечное чтение поста в любом статусе.
	// Если запись не найдена - ErrNotFound.
	PostByID(ctx context.Context, id int64) (*models.Post, error)

	// PostByIDAndStatus - точечное чтение поста в заданном статусе.
	// Если записи нет или статус другой - ErrNotFound.
	PostByIDAndStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error)

	// ListPosts возвращает страницу ACTIVE-постов: created_at DESC, id DESC.
	// Фильтр: точное совпадение региона, подстрока без учёта регистра в title/content.
	ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (*models.PostSlice, error)

	// UpdatePost перезаписывает изменяемые поля (title, content, координаты, регион, теги)
	// у поста, который не в статусе DELETED. Возвращает число изменённых строк.
	UpdatePost(ctx context.Context, post models.Post) (int64, error)

	// IncrementPostLike - like_count + 1, если текущий статус равен required.
	IncrementPostLike(ctx context.Context, id int64, required models.PostStatus) (int64, error)

	// IncrementPostView - view_count + 1, если текущий статус равен required.
	IncrementPostView(ctx context.Context, id int64, required models.PostStatus) (int64, error)

	// TransitionPostStatus меняет статус from -> to; 0 строк, если текущий статус не from.
	TransitionPostStatus(ctx context.Context, id int64, from, to models.PostStatus) (int64, error)
}

// CommentStorage описывает операции над комментариями.
type CommentStorage interface {
	// CreateComment вставляет комментарий и возвращает присвоенный id.
	// Depth/ParentID/PostID берутся из модели как есть (инварианты проверены в models).
	CreateComment(ctx context.Context, comment models.Comment) (int64, error)

	// CommentByID - точечное чтение комментария в любом статусе.
	// Если запись не найдена - ErrNotFound.
	CommentByID(ctx context.Context, id int64) (*models.Comment, error)

	// CommentByIDPostStatus - точечное чтение по ключу (id, post_id, status).
	// Если записи нет - ErrNotFound.
	CommentByIDPostStatus(ctx context.Context, id, postID int64, status models.CommentStatus) (*models.Comment, error)

	// UpdateCommentContent меняет текст только у ACTIVE-комментария. Возвращает число изменённых строк.
	UpdateCommentContent(ctx context.Context, id, postID int64, content string) (int64, error)

	// IncrementCommentLike - like_count + 1, если текущий статус равен required.
	IncrementCommentLike(ctx context.Context, id, postID int64, required models.CommentStatus) (int64, error)

	// TransitionCommentStatus меняет статус from -> to; 0 строк, если записи нет или статус не from.
	TransitionCommentStatus(ctx context.Context, id, postID int64, from, to models.CommentStatus) (int64, error)

	// ListVisibleRoots возвращает страницу видимых корней поста:
	//   status = ACTIVE, либо status = DELETED и есть хотя бы один ACTIVE-ребёнок.
	// Сортировка: created_at DESC, id DESC. Total считается по тому же условию.
	ListVisibleRoots(ctx context.Context, postID int64, page models.PageRequest) (*models.RootPage, error)

	// ActiveRepliesByParentIDs одним запросом возвращает ACTIVE-ответы для набора родителей.
	// Сортировка: created_at ASC, id ASC. Пустой набор - пустой результат без запроса.
	ActiveRepliesByParentIDs(ctx context.Context, parentIDs []int64) ([]models.Comment, error)
}

// UserStorage описывает операции над пользователями.
type UserStorage interface {
	// CreateUser вставляет пользователя. Дубликат email - ErrConflict.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// UserByIDAndStatus - точечное чтение пользователя в заданном статусе.
	// Если записи нет или статус другой - ErrNotFound.
	UserByIDAndStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error)

	// TransitionUserStatus меняет статус from -> to; 0 строк, если текущий статус не from.
	TransitionUserStatus(ctx context.Context, id int64, from, to models.UserStatus) (int64, error)
}

// Storage задаёт контракт доступа к хранилищу для board-сервиса.
type Storage interface {
	PostStorage
	CommentStorage
	UserStorage

	// InTx выполняет fn в одной транзакции. Хранилище, переданное в fn, привязано к ней;
	// ошибка из fn откатывает транзакцию. Вложенный вызов InTx переиспользует текущую.
	InTx(ctx context.Context, fn func(tx Storage) error) error

	// Ping проверяет доступность хранилища (readiness).
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close()
}
