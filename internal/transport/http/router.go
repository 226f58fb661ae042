// Package http собирает REST API board-сервиса поверх chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-board/internal/transport/http/handlers"
	"github.com/pribylovaa/go-board/internal/transport/http/middleware"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой - роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(board handlers.Board, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.RequestID(),          // X-Request-Id до логирования
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
		middleware.Recover(),            // паника логируется уже с request_id
		middleware.UserID(),             // X-User-Id -> контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(board)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes - единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// posts
	r.Post("/posts", h.CreatePost)
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/search", h.SearchPosts)
	r.Get("/posts/{postId}", h.GetPost)
	r.Patch("/posts/{postId}", h.UpdatePost)
	r.Delete("/posts/{postId}", h.DeletePost)
	r.Post("/posts/{postId}/like", h.LikePost)
	r.Patch("/posts/{postId}/hide", h.HidePost)
	r.Patch("/posts/{postId}/activate", h.ActivatePost)

	// comments
	r.Post("/posts/{postId}/comments", h.CreateComment)
	r.Get("/posts/{postId}/comments", h.ListComments)
	r.Post("/posts/{postId}/comments/{commentId}/replies", h.CreateReply)
	r.Post("/posts/{postId}/comments/{commentId}/like", h.LikeComment)
	r.Patch("/posts/{postId}/comments/{commentId}", h.UpdateComment)
	r.Delete("/posts/{postId}/comments/{commentId}", h.DeleteComment)

	// users
	r.Post("/users", h.RegisterUser)
	r.Get("/users/{id}", h.GetUser)
	r.Patch("/users/{id}/block", h.BlockUser)
	r.Patch("/users/{id}/activate", h.ActivateUser)
}
