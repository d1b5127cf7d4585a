package service

import (
	"context"
	"errors"
	"time"

	"stonearchive/internal/config"
	"stonearchive/internal/domain"
	"stonearchive/internal/repository"
)

type SearchService interface {
	Search(ctx context.Context, in domain.SearchPhotosInput) (domain.PaginatedResponse[domain.PhotoSummary], error)
}

type searchService struct {
	repo repository.PhotographRepository
	cfg  *config.Config
}

func NewSearchService(repo repository.PhotographRepository, cfg *config.Config) SearchService {
	return &searchService{repo: repo, cfg: cfg}
}

// Search answers a compound query under a wall-clock budget. A query that
// exceeds the budget is cancelled and reported as a timeout, which is safe
// to retry.
//
// The first page of a walk gets an anchor timestamp; the response echoes it
// and clients pass it back, so uploads landing mid-walk never shift page
// boundaries.
func (s *searchService) Search(ctx context.Context, in domain.SearchPhotosInput) (domain.PaginatedResponse[domain.PhotoSummary], error) {
	var empty domain.PaginatedResponse[domain.PhotoSummary]

	if err := in.Normalize(s.cfg.MaxSearchRadiusMeters); err != nil {
		return empty, err
	}

	if in.Anchor == nil {
		now := time.Now().UTC()
		in.Anchor = &now
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	summaries, total, err := s.repo.Search(ctx, in)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return empty, domain.ErrQueryTimeout()
		}
		return empty, err
	}

	resp := domain.NewPaginatedResponse(summaries, in.Pagination.Page, in.Pagination.PageSize, total)
	resp.Anchor = in.Anchor
	return resp, nil
}
