// ABOUTME: Catalog product endpoints and their back-office mutations
// ABOUTME: Covers products, variants and product images

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// ProductService covers the catalog and admin product edits
type ProductService struct {
	d Doer
}

// ProductPayload is the body for creating a product. Updates send only the
// fields set in ProductUpdate.
type ProductPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	LongDescription string `json:"longDescription,omitempty"`
	CategoryID      string `json:"categoryId"`
	SubcategoryID   string `json:"subcategoryId,omitempty"`
	IsFeatured      bool   `json:"isFeatured,omitempty"`
}

type ProductUpdate struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	LongDescription *string `json:"longDescription,omitempty"`
	CategoryID      *string `json:"categoryId,omitempty"`
	SubcategoryID   *string `json:"subcategoryId,omitempty"`
	IsFeatured      *bool   `json:"isFeatured,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

type VariantPayload struct {
	ProductID        string        `json:"productId,omitempty"`
	SKU              string        `json:"sku,omitempty"`
	Size             string        `json:"size,omitempty"`
	Color            string        `json:"color,omitempty"`
	Gender           models.Gender `json:"gender,omitempty"`
	Price            float64       `json:"price,omitempty"`
	Stock            *int          `json:"stock,omitempty"`
	ShortDescription string        `json:"shortDescription,omitempty"`
	Features         string        `json:"features,omitempty"`
}

type ProductImagePayload struct {
	ProductID  string   `json:"productId"`
	VariantIDs []string `json:"variantIds,omitempty"`
	URL        string   `json:"url"`
	PublicID   string   `json:"publicId"`
	Alt        string   `json:"alt"`
	Order      int      `json:"order"`
}

// List calls GET /products with filters
func (s *ProductService) List(ctx context.Context, filters ProductFilters) (*models.Paginated[models.Product], error) {
	var page models.Paginated[models.Product]
	if err := s.d.Get(ctx, "/products", filters.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Featured returns up to limit featured products
func (s *ProductService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	featured := true
	page, err := s.List(ctx, ProductFilters{IsFeatured: &featured, Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// BySlug calls GET /products/slug/{slug}
func (s *ProductService) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := s.d.Get(ctx, "/products/slug/"+seg(slug), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ByID calls GET /products/{id}
func (s *ProductService) ByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.d.Get(ctx, "/products/"+seg(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Create(ctx context.Context, payload ProductPayload) (*models.Product, error) {
	var p models.Product
	if err := s.d.Post(ctx, "/products", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, update ProductUpdate) (*models.Product, error) {
	var p models.Product
	if err := s.d.Patch(ctx, "/products/"+seg(id), update, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/products/"+seg(id), nil)
}

func (s *ProductService) CreateVariant(ctx context.Context, payload VariantPayload) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := s.d.Post(ctx, "/products/variants", payload, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ProductService) UpdateVariant(ctx context.Context, id string, payload VariantPayload) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := s.d.Patch(ctx, "/products/variants/"+seg(id), payload, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ProductService) DeleteVariant(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/products/variants/"+seg(id), nil)
}

func (s *ProductService) AddImage(ctx context.Context, payload ProductImagePayload) (*models.ProductImage, error) {
	var img models.ProductImage
	if err := s.d.Post(ctx, "/products/images", payload, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *ProductService) DeleteImage(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/products/images/"+seg(id), nil)
}
