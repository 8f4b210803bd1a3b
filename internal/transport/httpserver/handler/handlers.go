package handler

import (
	librarydomain "photo-review-go/internal/domain/library"
	photodomain "photo-review-go/internal/domain/photo"
	projectdomain "photo-review-go/internal/domain/project"
	reviewdomain "photo-review-go/internal/domain/review"
	userdomain "photo-review-go/internal/domain/user"
	"photo-review-go/pkg/logger"
)

type Handlers struct {
	Users     *userdomain.Service
	Projects  *projectdomain.Service
	Libraries *librarydomain.Service
	Photos    *photodomain.Service
	Reviews   *reviewdomain.Service
	log       logger.Logger
}

func New(users *userdomain.Service, projects *projectdomain.Service, libraries *librarydomain.Service, photos *photodomain.Service, reviews *reviewdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:     users,
		Projects:  projects,
		Libraries: libraries,
		Photos:    photos,
		Reviews:   reviews,
		log:       log,
	}
}
