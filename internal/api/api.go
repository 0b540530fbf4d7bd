// ABOUTME: Typed storefront API services over the shared request pipeline
// ABOUTME: Every service issues its calls through one Doer so refresh handling is shared

package api

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/delcarajo/storefront/internal/models"
	"golang.org/x/sync/errgroup"
)

// Doer is the request pipeline the services call through
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
	BaseURL() string
}

// API groups the resource services
type API struct {
	Auth       *AuthService
	Users      *UserService
	Products   *ProductService
	Categories *CategoryService
	Cart       *CartService
	Favorites  *FavoriteService
	Addresses  *AddressService
	Orders     *OrderService
	Landing    *LandingService
	Uploads    *UploadService
	Dashboard  *DashboardService
	BCV        *BCVService
}

// New wires every service to d
func New(d Doer) *API {
	uploads := &UploadService{d: d}
	return &API{
		Auth:       &AuthService{d: d},
		Users:      &UserService{d: d},
		Products:   &ProductService{d: d},
		Categories: &CategoryService{d: d},
		Cart:       &CartService{d: d},
		Favorites:  &FavoriteService{d: d},
		Addresses:  &AddressService{d: d},
		Orders:     &OrderService{d: d, uploads: uploads},
		Landing:    &LandingService{d: d},
		Uploads:    uploads,
		Dashboard:  &DashboardService{d: d},
		BCV:        &BCVService{d: d},
	}
}

// FeaturedLimit is how many featured products the home page shows
const FeaturedLimit = 8

// LoadHome fetches landing sections, featured products and categories
// concurrently. The first failure cancels the other calls.
func (a *API) LoadHome(ctx context.Context) (*models.Home, error) {
	var home models.Home
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sections, err := a.Landing.Sections(ctx)
		if err != nil {
			return err
		}
		home.Sections = sections
		return nil
	})
	g.Go(func() error {
		featured, err := a.Products.Featured(ctx, FeaturedLimit)
		if err != nil {
			return err
		}
		home.Featured = featured
		return nil
	})
	g.Go(func() error {
		categories, err := a.Categories.List(ctx)
		if err != nil {
			return err
		}
		home.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// seg escapes one path segment
func seg(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}
