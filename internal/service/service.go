package service

import (
	"github.com/redis/go-redis/v9"

	"stonearchive/internal/config"
	"stonearchive/internal/repository"
	"stonearchive/internal/storage"
)

type Services struct {
	Photo  PhotoService
	Search SearchService
}

func NewServices(repos *repository.Repositories, objects storage.ObjectStorage, redisClient *redis.Client, cfg *config.Config) *Services {
	validator := NewUploadValidator(cfg.MaxUploadBytes)
	extractor := NewExifExtractor()
	generator := NewDerivativeGenerator(
		cfg.ThumbnailWidth, cfg.ThumbnailHeight, cfg.ThumbnailQuality,
		cfg.PreviewWidth, cfg.PreviewHeight, cfg.PreviewQuality,
		cfg.DerivativeWorkers,
	)

	return &Services{
		Photo:  NewPhotoService(repos.Photograph, objects, validator, extractor, generator, redisClient, cfg),
		Search: NewSearchService(repos.Photograph, cfg),
	}
}
