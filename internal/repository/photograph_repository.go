package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"stonearchive/internal/domain"
)

type PhotographRepository interface {
	Create(ctx context.Context, photo *domain.Photograph, tagNames []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, in domain.SearchPhotosInput) ([]domain.PhotoSummary, int64, error)
}

type photographRepository struct {
	db *sqlx.DB
}

func NewPhotographRepository(db *sqlx.DB) PhotographRepository {
	return &photographRepository{db: db}
}

// Create inserts the photograph row and its tag links in one transaction.
// Object writes have already happened by the time this runs; the caller owns
// cleanup if the insert fails.
func (r *photographRepository) Create(ctx context.Context, photo *domain.Photograph, tagNames []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO photographs (
			photo_id, owner_id, cemetery_id, section_id, plot_id,
			storage_path, thumbnail_path, preview_path,
			file_size, file_format, image_width, image_height,
			exif_date_taken, exif_latitude, exif_longitude,
			exif_camera_make, exif_camera_model, exif_focal_length,
			exif_aperture, exif_shutter_speed, exif_iso,
			description, photographer_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at`

	err = tx.QueryRowxContext(ctx, query,
		photo.ID, photo.OwnerID, photo.CemeteryID, photo.SectionID, photo.PlotID,
		photo.StoragePath, photo.ThumbnailPath, photo.PreviewPath,
		photo.FileSize, photo.FileFormat, photo.ImageWidth, photo.ImageHeight,
		photo.ExifDateTaken, photo.ExifLatitude, photo.ExifLongitude,
		photo.ExifCameraMake, photo.ExifCameraModel, photo.ExifFocalLength,
		photo.ExifAperture, photo.ExifShutterSpeed, photo.ExifISO,
		photo.Description, photo.PhotographerNotes,
	).Scan(&photo.CreatedAt)
	if err != nil {
		return err
	}

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag domain.Tag
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO tags (tag_id, name) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING tag_id, name`,
			uuid.New(), name,
		).StructScan(&tag)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO photo_tags (photo_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			photo.ID, tag.ID,
		)
		if err != nil {
			return err
		}

		photo.Tags = append(photo.Tags, tag)
	}

	return tx.Commit()
}

func (r *photographRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error) {
	var photo domain.Photograph
	query := `SELECT * FROM photographs WHERE photo_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &photo, query, id); err != nil {
		return nil, err
	}

	tagQuery := `
		SELECT t.tag_id, t.name FROM tags t
		JOIN photo_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.photo_id = $1
		ORDER BY t.name`
	if err := r.db.SelectContext(ctx, &photo.Tags, tagQuery, id); err != nil {
		return nil, err
	}

	return &photo, nil
}

func (r *photographRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE photographs SET deleted_at = NOW() WHERE photo_id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound("Photo")
	}
	return nil
}

// Search runs every active predicate as one SQL statement. Each predicate
// class has its own index: trigram GIN indexes for text, a GiST earth index
// for radius, a btree for the capture date. Ordering is newest-first, or
// nearest-first when a geographic filter is active; ties break on photo_id.
// An anchor timestamp, when present, caps created_at so a paginated walk
// stays stable while new photographs arrive.
func (r *photographRepository) Search(ctx context.Context, in domain.SearchPhotosInput) ([]domain.PhotoSummary, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "p.deleted_at IS NULL")

	if in.Text != nil {
		// Each UNION arm runs against its own trigram index: the per-column
		// photograph indexes and the tag-name index. The predicates stay bare
		// column expressions so the planner can use them; NULL columns simply
		// never match.
		p := add(*in.Text)
		conds = append(conds, fmt.Sprintf(`p.photo_id IN (
			SELECT p2.photo_id FROM photographs p2
			WHERE p2.description ILIKE '%%' || %[1]s || '%%'
				OR p2.description %% %[1]s
				OR p2.photographer_notes ILIKE '%%' || %[1]s || '%%'
				OR p2.photographer_notes %% %[1]s
			UNION
			SELECT pt.photo_id FROM photo_tags pt
			JOIN tags t ON t.tag_id = pt.tag_id
			WHERE t.name ILIKE '%%' || %[1]s || '%%' OR t.name %% %[1]s
		)`, p))
	}

	if in.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("p.exif_date_taken >= %s", add(*in.DateFrom)))
	}
	if in.DateTo != nil {
		conds = append(conds, fmt.Sprintf("p.exif_date_taken <= %s", add(*in.DateTo)))
	}

	if in.Anchor != nil {
		conds = append(conds, fmt.Sprintf("p.created_at <= %s", add(*in.Anchor)))
	}

	if in.OwnerID != nil {
		conds = append(conds, fmt.Sprintf("p.owner_id = %s", add(*in.OwnerID)))
	}
	if in.CemeteryID != nil {
		conds = append(conds, fmt.Sprintf("p.cemetery_id = %s", add(*in.CemeteryID)))
	}

	distanceExpr := "NULL::float8"
	orderBy := "p.created_at DESC, p.photo_id ASC"

	if in.Geo != nil {
		pLat := add(in.Geo.Latitude)
		pLng := add(in.Geo.Longitude)
		pRad := add(in.Geo.RadiusMeters)

		center := fmt.Sprintf("ll_to_earth(%s, %s)", pLat, pLng)
		point := "ll_to_earth(p.exif_latitude, p.exif_longitude)"
		distanceExpr = fmt.Sprintf("earth_distance(%s, %s)", center, point)

		// earth_box is the index-assisted prefilter; earth_distance is the
		// exact great-circle check (the box overshoots at its corners).
		conds = append(conds,
			"p.exif_latitude IS NOT NULL",
			fmt.Sprintf("earth_box(%s, %s) @> %s", center, pRad, point),
			fmt.Sprintf("%s <= %s", distanceExpr, pRad),
		)
		orderBy = "distance_meters ASC, p.photo_id ASC"
	}

	where := strings.Join(conds, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM photographs p WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	pLimit := add(in.Pagination.PageSize)
	pOffset := add(in.Pagination.Offset())

	query := fmt.Sprintf(`
		SELECT
			p.photo_id, p.cemetery_id, p.description, p.file_format,
			p.image_width, p.image_height, p.exif_date_taken,
			p.exif_latitude, p.exif_longitude, p.created_at,
			%s AS distance_meters
		FROM photographs p
		WHERE %s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		distanceExpr, where, orderBy, pLimit, pOffset)

	summaries := []domain.PhotoSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}
