// ABOUTME: Favorite product endpoints
// ABOUTME: CheckMany resolves favorite flags for a product listing with bounded concurrency

package api

import (
	"context"
	"sync"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// maxFavoriteChecks bounds concurrent GET /favorites/check calls
const maxFavoriteChecks = 4

// FavoriteService manages the signed-in user's favorite products
type FavoriteService struct {
	d Doer
}

// List returns every favorite with its product
func (s *FavoriteService) List(ctx context.Context) (*models.FavoriteList, error) {
	var out models.FavoriteList
	if err := s.d.Get(ctx, "/favorites", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add marks productID as a favorite
func (s *FavoriteService) Add(ctx context.Context, productID string) (*models.Favorite, error) {
	var out struct {
		Message  string          `json:"message"`
		Favorite models.Favorite `json:"favorite"`
	}
	if err := s.d.Post(ctx, "/favorites", map[string]string{"productId": productID}, &out); err != nil {
		return nil, err
	}
	return &out.Favorite, nil
}

// Check calls GET /favorites/check/{productId}
func (s *FavoriteService) Check(ctx context.Context, productID string) (bool, error) {
	var out models.FavoriteCheck
	if err := s.d.Get(ctx, "/favorites/check/"+seg(productID), nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

// CheckMany returns the favorite flag of every product id. The first failure
// cancels the remaining checks.
func (s *FavoriteService) CheckMany(ctx context.Context, productIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(productIDs))
	var mu sync.Mutex

	p := pool.New().
		WithMaxGoroutines(maxFavoriteChecks).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, id := range productIDs {
		p.Go(func(ctx context.Context) error {
			fav, err := s.Check(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = fav
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes a favorite by its own id, not the product id
func (s *FavoriteService) Remove(ctx context.Context, favoriteID string) error {
	return s.d.Delete(ctx, "/favorites/"+seg(favoriteID), nil)
}

// Clear removes every favorite and returns how many were deleted
func (s *FavoriteService) Clear(ctx context.Context) (int, error) {
	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := s.d.Delete(ctx, "/favorites", &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
