package app

import (
	"net/http"

	"photo-review-go/internal/config"
	"photo-review-go/internal/db"
	librarydomain "photo-review-go/internal/domain/library"
	photodomain "photo-review-go/internal/domain/photo"
	projectdomain "photo-review-go/internal/domain/project"
	reviewdomain "photo-review-go/internal/domain/review"
	userdomain "photo-review-go/internal/domain/user"
	libraryrepo "photo-review-go/internal/repository/postgres/library"
	photorepo "photo-review-go/internal/repository/postgres/photo"
	projectrepo "photo-review-go/internal/repository/postgres/project"
	reviewrepo "photo-review-go/internal/repository/postgres/review"
	userrepo "photo-review-go/internal/repository/postgres/user"
	"photo-review-go/internal/transport/httpserver"
	"photo-review-go/internal/transport/httpserver/handler"
	"photo-review-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	projects := projectdomain.NewService(projectrepo.NewPostgres(dbConn))
	// The project service doubles as the membership gate for libraries.
	libraries := librarydomain.NewService(libraryrepo.NewPostgres(dbConn), projects)
	photos := photodomain.NewService(photorepo.NewPostgres(dbConn), cfg.Thumbnails.MaxDim)
	reviews := reviewdomain.NewService(reviewrepo.NewPostgres(dbConn))

	handlers := handler.New(users, projects, libraries, photos, reviews, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
