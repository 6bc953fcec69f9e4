// Package media serves the catalog: popular feeds and name search across the
// movie, series and anime providers, plus the combined all-category views.
package media

import (
	"context"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"cinelist/internal/provider"
	"cinelist/pkg/models"
)

// Service answers catalog queries. Popular feeds are cached because every
// visitor hits them; searches go straight to the providers.
type Service struct {
	TMDB    *provider.TMDB
	AniList *provider.AniList

	cache *cache.Cache
	group singleflight.Group
}

func NewService(tmdb *provider.TMDB, anilist *provider.AniList) *Service {
	return &Service{
		TMDB:    tmdb,
		AniList: anilist,
		cache:   cache.New(10*time.Minute, 30*time.Minute),
	}
}

// cached runs fetch under singleflight and a TTL cache keyed by key, so a
// burst of requests for the same feed costs one upstream call.
func (s *Service) cached(key string, fetch func() ([]models.Media, error)) ([]models.Media, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.Media), nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if v, ok := s.cache.Get(key); ok {
			return v.([]models.Media), nil
		}
		items, err := fetch()
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, items, cache.DefaultExpiration)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Media), nil
}

func (s *Service) PopularMovies(ctx context.Context) ([]models.Media, error) {
	return s.cached("popular:movie", func() ([]models.Media, error) {
		return s.TMDB.PopularMovies(ctx, 1)
	})
}

func (s *Service) PopularSeries(ctx context.Context) ([]models.Media, error) {
	return s.cached("popular:serie", func() ([]models.Media, error) {
		return s.TMDB.PopularSeries(ctx, 1)
	})
}

func (s *Service) PopularAnime(ctx context.Context) ([]models.Media, error) {
	return s.cached("popular:anime", func() ([]models.Media, error) {
		return s.AniList.PopularAnime(ctx, 1)
	})
}

// PopularAll builds the combined home feed: popular movies, then series, then
// anime, fetched concurrently and deduplicated. One broken provider should
// not empty the whole feed, so per-category failures are logged and skipped;
// only all three failing is an error.
func (s *Service) PopularAll(ctx context.Context) ([]models.Media, error) {
	return s.combine(ctx,
		s.PopularMovies,
		s.PopularSeries,
		s.PopularAnime,
	)
}

func (s *Service) SearchMovies(ctx context.Context, name string) ([]models.Media, error) {
	return s.TMDB.SearchMovies(ctx, name)
}

func (s *Service) SearchSeries(ctx context.Context, name string) ([]models.Media, error) {
	return s.TMDB.SearchSeries(ctx, name)
}

func (s *Service) SearchAnime(ctx context.Context, name string) ([]models.Media, error) {
	return s.AniList.SearchAnime(ctx, name)
}

// SearchAll searches every category for name, with the same partial-failure
// tolerance as PopularAll.
func (s *Service) SearchAll(ctx context.Context, name string) ([]models.Media, error) {
	return s.combine(ctx,
		func(ctx context.Context) ([]models.Media, error) { return s.SearchMovies(ctx, name) },
		func(ctx context.Context) ([]models.Media, error) { return s.SearchSeries(ctx, name) },
		func(ctx context.Context) ([]models.Media, error) { return s.SearchAnime(ctx, name) },
	)
}

func (s *Service) combine(ctx context.Context, fetches ...func(context.Context) ([]models.Media, error)) ([]models.Media, error) {
	results := make([][]models.Media, len(fetches))
	errs := make([]error, len(fetches))

	g, gctx := errgroup.WithContext(ctx)
	for i, fetch := range fetches {
		i, fetch := i, fetch
		g.Go(func() error {
			items, err := fetch(gctx)
			if err != nil {
				log.Printf("[media] category fetch failed: %v", err)
				errs[i] = err
				return nil
			}
			results[i] = items
			return nil
		})
	}
	g.Wait()

	var out []models.Media
	failed := 0
	for i, items := range results {
		if errs[i] != nil {
			failed++
			continue
		}
		out = append(out, items...)
	}
	if failed == len(fetches) {
		return nil, errs[0]
	}
	return provider.Dedupe(out), nil
}
