package httpserver

import (
	"net/http"
	"time"

	"photo-review-go/internal/config"
	"photo-review-go/internal/transport/httpserver/handler"
	authmw "photo-review-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{cfg.CORSOrigin}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		auth := authmw.NewJWTAuth(cfg.Auth.JWTSecret)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/projects", handlers.ListProjects)
			r.Post("/projects", handlers.CreateProject)
			r.Get("/projects/{project_id}", handlers.GetProject)
			r.Patch("/projects/{project_id}", handlers.UpdateProject)
			r.Delete("/projects/{project_id}", handlers.DeleteProject)
			r.Post("/projects/{project_id}/archive", handlers.ArchiveProject)

			r.Get("/projects/{project_id}/members", handlers.ListProjectMembers)
			r.Post("/projects/{project_id}/members", handlers.AddProjectMember)
			r.Patch("/projects/{project_id}/members/{user_id}", handlers.UpdateProjectMember)
			r.Delete("/projects/{project_id}/members/{user_id}", handlers.RemoveProjectMember)

			r.Get("/libraries", handlers.ListLibraries)
			r.Post("/libraries", handlers.CreateLibrary)
			r.Get("/libraries/{library_id}", handlers.GetLibrary)
			r.Patch("/libraries/{library_id}", handlers.UpdateLibrary)
			r.Post("/libraries/{library_id}/archive", handlers.ArchiveLibrary)
			r.Get("/libraries/{library_id}/photos", handlers.ListLibraryPhotos)

			r.Get("/photos", handlers.ListPhotos)
			r.Get("/photos/{photo_id}", handlers.GetPhoto)
			r.Patch("/photos/{photo_id}", handlers.UpdatePhoto)
			r.Post("/photos/{photo_id}/thumbnail", handlers.GeneratePhotoThumbnail)

			r.Get("/photos/{photo_id}/reviews", handlers.ListPhotoReviews)
			r.Put("/photos/{photo_id}/reviews", handlers.PutPhotoReview)

			r.Get("/reviews", handlers.ListMyReviews)
		})
	})

	return r
}
