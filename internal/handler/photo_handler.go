package handler

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stonearchive/internal/domain"
	"stonearchive/internal/middleware"
	"stonearchive/internal/service"
)

type PhotoHandler struct {
	photoService  service.PhotoService
	searchService service.SearchService
}

func NewPhotoHandler(photoService service.PhotoService, searchService service.SearchService) *PhotoHandler {
	return &PhotoHandler{
		photoService:  photoService,
		searchService: searchService,
	}
}

// Upload accepts a multipart photo upload. Identity and association ids
// arrive as opaque form values: they are minted and checked by the services
// that own them.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}

	input := domain.IngestInput{
		Data:             data,
		DeclaredType:     file.Header.Get("Content-Type"),
		DeclaredFilename: file.Filename,
		OwnerID:          c.FormValue("owner_id"),
		CemeteryID:       c.FormValue("cemetery_id"),
		SectionID:        optionalFormValue(c, "section_id"),
		PlotID:           optionalFormValue(c, "plot_id"),
		Description:      optionalFormValue(c, "description"),
		PhotographerNotes: optionalFormValue(c, "photographer_notes"),
	}

	if tags := c.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				input.Tags = append(input.Tags, tag)
			}
		}
	}

	photo, err := h.photoService.Ingest(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

func (h *PhotoHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	photo, err := h.photoService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(photo)
}

// File serves the original bytes exactly as uploaded.
func (h *PhotoHandler) File(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	data, contentType, err := h.photoService.GetOriginalBytes(c.Context(), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func (h *PhotoHandler) Thumbnail(c *fiber.Ctx) error {
	return h.derivedAsset(c, domain.VariantThumbnail)
}

func (h *PhotoHandler) Preview(c *fiber.Ctx) error {
	return h.derivedAsset(c, domain.VariantPreview)
}

func (h *PhotoHandler) derivedAsset(c *fiber.Ctx, variant domain.DerivedVariant) error {
	id, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	data, err := h.photoService.GetDerivedAsset(c.Context(), id, variant)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

func (h *PhotoHandler) Search(c *fiber.Ctx) error {
	input := domain.SearchPhotosInput{
		Text:       optionalQuery(c, "text"),
		OwnerID:    optionalQuery(c, "owner_id"),
		CemeteryID: optionalQuery(c, "cemetery_id"),
		Pagination: getPaginationParams(c),
	}

	var err error
	if input.DateFrom, err = optionalDate(c, "date_from"); err != nil {
		return middleware.BadRequest("date_from must be YYYY-MM-DD or RFC 3339")
	}
	if input.DateTo, err = optionalDate(c, "date_to"); err != nil {
		return middleware.BadRequest("date_to must be YYYY-MM-DD or RFC 3339")
	}
	if input.Anchor, err = optionalDate(c, "anchor"); err != nil {
		return middleware.BadRequest("anchor must be RFC 3339")
	}

	if latStr := c.Query("latitude"); latStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(c.Query("longitude"), 64)
		radius, radErr := strconv.ParseFloat(c.Query("radius_meters"), 64)
		if latErr != nil || lngErr != nil || radErr != nil {
			return middleware.BadRequest("Geographic search needs latitude, longitude and radius_meters")
		}
		input.Geo = &domain.GeoFilter{Latitude: lat, Longitude: lng, RadiusMeters: radius}
	}

	result, err := h.searchService.Search(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	if err := h.photoService.SoftDelete(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func optionalFormValue(c *fiber.Ctx, key string) *string {
	if v := c.FormValue(key); v != "" {
		return &v
	}
	return nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

// optionalDate accepts a bare date or a full RFC 3339 timestamp. Bare dates
// used as an upper bound are pushed to end of day so the range stays
// inclusive.
func optionalDate(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", v); err == nil {
		if key == "date_to" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
