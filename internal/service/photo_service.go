package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"stonearchive/internal/config"
	"stonearchive/internal/domain"
	"stonearchive/internal/repository"
	"stonearchive/internal/storage"
)

const photoCacheTTL = 5 * time.Minute

type PhotoService interface {
	Ingest(ctx context.Context, input domain.IngestInput) (*domain.Photograph, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error)
	GetOriginalBytes(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	GetDerivedAsset(ctx context.Context, id uuid.UUID, variant domain.DerivedVariant) ([]byte, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type photoService struct {
	repo      repository.PhotographRepository
	objects   storage.ObjectStorage
	validator *UploadValidator
	extractor *ExifExtractor
	generator *DerivativeGenerator
	redis     *redis.Client
	cfg       *config.Config
}

func NewPhotoService(
	repo repository.PhotographRepository,
	objects storage.ObjectStorage,
	validator *UploadValidator,
	extractor *ExifExtractor,
	generator *DerivativeGenerator,
	redisClient *redis.Client,
	cfg *config.Config,
) PhotoService {
	return &photoService{
		repo:      repo,
		objects:   objects,
		validator: validator,
		extractor: extractor,
		generator: generator,
		redis:     redisClient,
		cfg:       cfg,
	}
}

// Ingest runs one upload through the full pipeline: validate, extract
// metadata and generate derivatives (concurrently, both need only the
// validated bytes), then write bytes before record.
//
// The byte store and the record store share no transaction. The ordering is
// the consistency mechanism: a record never references objects that were not
// written, and a record-insert failure triggers best-effort removal of the
// objects just written. The residual window is an orphan file, never an
// orphan record; an out-of-band sweep reconciles anything the best-effort
// cleanup missed.
func (s *photoService) Ingest(ctx context.Context, input domain.IngestInput) (*domain.Photograph, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.IngestTimeout)
	defer cancel()

	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, domain.ErrBadInput("Owner is required")
	}
	if strings.TrimSpace(input.CemeteryID) == "" {
		return nil, domain.ErrBadInput("Cemetery is required")
	}

	validated, err := s.validator.Validate(input.Data, input.DeclaredType, input.DeclaredFilename)
	if err != nil {
		return nil, err
	}

	var (
		meta    *domain.ExtractedMetadata
		derived *Derivatives
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta = s.extractor.Extract(validated.Data)
		return nil
	})
	g.Go(func() error {
		var genErr error
		derived, genErr = s.generator.Generate(gctx, validated.Data)
		return genErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	id := uuid.New()
	now := time.Now().UTC()

	// Year/month partitioning bounds fan-out under one prefix.
	base := fmt.Sprintf("photos/%04d/%02d/%s", now.Year(), now.Month(), id)
	originalKey := base + validated.Extension
	thumbKey := base + "_thumb.jpg"
	previewKey := base + "_preview.jpg"

	writes := []objectWrite{
		{originalKey, validated.Data, validated.MIMEType},
		{thumbKey, derived.Thumbnail, "image/jpeg"},
		{previewKey, derived.Preview, "image/jpeg"},
	}
	for i, w := range writes {
		if err := s.objects.Put(ctx, w.key, w.data, w.contentType); err != nil {
			s.removeObjects(writes[:i])
			return nil, domain.ErrStorageFailed(err)
		}
	}

	photo := &domain.Photograph{
		ID:                id,
		OwnerID:           input.OwnerID,
		CemeteryID:        input.CemeteryID,
		SectionID:         input.SectionID,
		PlotID:            input.PlotID,
		StoragePath:       originalKey,
		ThumbnailPath:     thumbKey,
		PreviewPath:       previewKey,
		FileSize:          int64(len(validated.Data)),
		FileFormat:        validated.Format,
		ImageWidth:        derived.Width,
		ImageHeight:       derived.Height,
		ExifDateTaken:     meta.DateTaken,
		ExifLatitude:      meta.Latitude,
		ExifLongitude:     meta.Longitude,
		ExifCameraMake:    meta.CameraMake,
		ExifCameraModel:   meta.CameraModel,
		ExifFocalLength:   meta.FocalLength,
		ExifAperture:      meta.Aperture,
		ExifShutterSpeed:  meta.ShutterSpeed,
		ExifISO:           meta.ISO,
		Description:       input.Description,
		PhotographerNotes: input.PhotographerNotes,
	}

	if err := s.repo.Create(ctx, photo, input.Tags); err != nil {
		s.removeObjects(writes)
		return nil, domain.ErrStorageFailed(err)
	}

	return photo, nil
}

// removeObjects is the best-effort compensating cleanup. Removal runs on a
// fresh context: the ingest context may already be cancelled. Keys that
// could not be removed are logged for the reconciliation sweep.
type objectWrite struct {
	key         string
	data        []byte
	contentType string
}

func (s *photoService) removeObjects(writes []objectWrite) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, w := range writes {
		if err := s.objects.Remove(cleanupCtx, w.key); err != nil {
			log.Printf("orphaned object %s: cleanup failed: %v", w.key, err)
		}
	}
}

func (s *photoService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error) {
	cacheKey := "photo:" + id.String()

	// The cached JSON omits storage keys (they are json:"-"), so the cache
	// only serves metadata reads; byte fetches go through fetchRecord.
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var photo domain.Photograph
			if json.Unmarshal([]byte(cached), &photo) == nil {
				return &photo, nil
			}
		}
	}

	photo, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if photoJSON, err := json.Marshal(photo); err == nil {
			_ = s.redis.Set(ctx, cacheKey, photoJSON, photoCacheTTL).Err()
		}
	}

	return photo, nil
}

func (s *photoService) fetchRecord(ctx context.Context, id uuid.UUID) (*domain.Photograph, error) {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound("Photo")
		}
		return nil, err
	}
	return photo, nil
}

// GetOriginalBytes returns the stored original exactly as uploaded, plus its
// content type.
func (s *photoService) GetOriginalBytes(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	photo, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.objects.Get(ctx, photo.StoragePath)
	if err != nil {
		return nil, "", domain.ErrStorageFailed(err)
	}

	return data, mimeTypeForFormat(photo.FileFormat), nil
}

func (s *photoService) GetDerivedAsset(ctx context.Context, id uuid.UUID, variant domain.DerivedVariant) ([]byte, error) {
	if !variant.IsValid() {
		return nil, domain.ErrBadInput("Unknown asset variant")
	}

	photo, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	key := photo.ThumbnailPath
	if variant == domain.VariantPreview {
		key = photo.PreviewPath
	}

	data, err := s.objects.Get(ctx, key)
	if err != nil {
		return nil, domain.ErrStorageFailed(err)
	}
	return data, nil
}

// SoftDelete hides the record from all reads. The original bytes are
// retained untouched.
func (s *photoService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.redis != nil {
		_ = s.redis.Del(ctx, "photo:"+id.String()).Err()
	}
	return nil
}

func mimeTypeForFormat(format string) string {
	switch format {
	case "JPEG":
		return "image/jpeg"
	case "PNG":
		return "image/png"
	case "TIFF":
		return "image/tiff"
	}
	return "application/octet-stream"
}
