package service

import (
	"context"
	"encoding/json"
	"time"

	"dailydose/internal/cache"
	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/logger"

	"go.uber.org/zap"
)

const pathwayCacheTTL = 5 * time.Minute

// PathwayService defines the interface for the Learning Pathway dashboard
type PathwayService interface {
	GetPathway(ctx context.Context) (*dto.PathwayResponse, error)
	InvalidatePathwayCache(ctx context.Context) error
}

// pathwayService implements PathwayService
type pathwayService struct {
	pathwayRepo domain.PathwayRepository
	cardRepo    domain.CardRepository
	attemptRepo domain.AttemptRepository
	cache       domain.Cache
}

// NewPathwayService creates a new instance of pathwayService
func NewPathwayService(
	pathwayRepo domain.PathwayRepository,
	cardRepo domain.CardRepository,
	attemptRepo domain.AttemptRepository,
	cacheClient domain.Cache,
) PathwayService {
	return &pathwayService{
		pathwayRepo: pathwayRepo,
		cardRepo:    cardRepo,
		attemptRepo: attemptRepo,
		cache:       cacheClient,
	}
}

func pathwayCacheKey() string {
	return cache.GenerateCacheKey("pathway", "dashboard", "all")
}

// GetPathway implements PathwayService. The dashboard rolls card counts up
// from subsections to categories and computes each category's coverage state.
// The assembled payload is cached; publish and archive invalidate it.
func (s *pathwayService) GetPathway(ctx context.Context) (*dto.PathwayResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, pathwayCacheKey()); err == nil {
			var resp dto.PathwayResponse
			if errDecode := json.Unmarshal([]byte(cached), &resp); errDecode == nil {
				return &resp, nil
			}
		}
	}

	themes, err := s.pathwayRepo.ListThemes(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list themes", err)
	}

	resp := &dto.PathwayResponse{Themes: make([]dto.PathwayTheme, 0, len(themes))}
	for _, theme := range themes {
		themeView := dto.PathwayTheme{
			ID:         theme.ID,
			Name:       theme.Name,
			Categories: make([]dto.PathwayCategory, 0, len(theme.Categories)),
		}
		for _, category := range theme.Categories {
			categoryView, err := s.buildCategory(ctx, category)
			if err != nil {
				return nil, err
			}
			themeView.Categories = append(themeView.Categories, categoryView)
		}
		resp.Themes = append(resp.Themes, themeView)
	}

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if errSet := s.cache.Set(ctx, pathwayCacheKey(), string(data), pathwayCacheTTL); errSet != nil {
				logger.Get().Warn("Failed to cache pathway dashboard", zap.Error(errSet))
			}
		}
	}
	return resp, nil
}

// InvalidatePathwayCache implements PathwayService
func (s *pathwayService) InvalidatePathwayCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, pathwayCacheKey())
}

func (s *pathwayService) buildCategory(ctx context.Context, category *domain.Category) (dto.PathwayCategory, error) {
	subsectionViews := make([]dto.PathwaySubsection, 0, len(category.Subsections))
	for _, subsection := range category.Subsections {
		total, published, err := s.cardRepo.CountCardsBySubsection(ctx, subsection.ID)
		if err != nil {
			return dto.PathwayCategory{}, domain.NewInternalError("Failed to count cards", err)
		}
		subsection.TotalCards = total
		subsection.PublishedCards = published

		attempts, err := s.attemptRepo.CountAttemptsBySubsection(ctx, subsection.ID)
		if err != nil {
			return dto.PathwayCategory{}, domain.NewInternalError("Failed to count attempts", err)
		}

		subsectionViews = append(subsectionViews, dto.PathwaySubsection{
			ID:             subsection.ID,
			Name:           subsection.Name,
			TotalCards:     total,
			PublishedCards: published,
			Attempts:       attempts,
		})
	}

	category.Rollup()
	return dto.PathwayCategory{
		ID:             category.ID,
		Name:           category.Name,
		TotalCards:     category.TotalCards,
		PublishedCards: category.PublishedCards,
		Coverage:       string(category.Coverage()),
		Subsections:    subsectionViews,
	}, nil
}
