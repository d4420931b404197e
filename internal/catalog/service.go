package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	featuredCombos = 3

	// menuLoadTimeout bounds a shared menu load, which outlives any single
	// caller's context.
	menuLoadTimeout = 10 * time.Second
)

type Service struct {
	repo  Repository
	cache MenuCache
	sfg   singleflight.Group // guards the menu load against stampedes
}

func NewService(repo Repository, cache MenuCache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

// Menu returns the whole menu in id order, read through the cache. A caller
// that gives up stops waiting, but the shared load keeps going for the
// others.
func (s *Service) Menu(ctx context.Context) ([]domain.CatalogItem, error) {
	ch := s.sfg.DoChan(menuKey, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), menuLoadTimeout)
		defer cancel()

		items, err := s.cache.Get(ctx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Msg("menu cache get failed")
		}

		items, err = s.repo.GetAllItems(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, items); err != nil {
				log.Warn().Err(err).Msg("menu cache set failed")
			}
		}()

		return items, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	items := res.Val.([]domain.CatalogItem)
	out := make([]domain.CatalogItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *Service) Item(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	items, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return filter(items, func(it domain.CatalogItem) bool { return it.Category == c }), nil
}

func (s *Service) Popular(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return filter(items, func(it domain.CatalogItem) bool { return it.Popular }), nil
}

// Featured is the home page selection.
type Featured struct {
	Popular []domain.CatalogItem `json:"popular"`
	Combos  []domain.CatalogItem `json:"combos"`
}

func (s *Service) Featured(ctx context.Context) (Featured, error) {
	items, err := s.Menu(ctx)
	if err != nil {
		return Featured{}, err
	}
	combos := filter(items, func(it domain.CatalogItem) bool { return it.Category == domain.CategoryCombo })
	return Featured{
		Popular: filter(items, func(it domain.CatalogItem) bool { return it.Popular }),
		Combos:  combos[:min(featuredCombos, len(combos))],
	}, nil
}

func (s *Service) Reviews(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx)
}

// AverageRating is the mean review score rounded to one decimal. Zero when
// there are no reviews.
func (s *Service) AverageRating(ctx context.Context) (float64, error) {
	reviews, err := s.repo.ListReviews(ctx)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	return avg.InexactFloat64(), nil
}

func filter(items []domain.CatalogItem, keep func(domain.CatalogItem) bool) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
