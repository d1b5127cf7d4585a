package handler

import "stonearchive/internal/service"

type Handlers struct {
	Photo *PhotoHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Photo: NewPhotoHandler(services.Photo, services.Search),
	}
}
