package activity

import (
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(db *gorm.DB, clock util.Clock) *Container {
	repo := NewRepository(db)
	service := NewService(repo, clock)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
