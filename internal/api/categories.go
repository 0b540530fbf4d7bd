// ABOUTME: Category and subcategory endpoints
// ABOUTME: Reads are public; mutations require an admin session

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// CategoryService covers categories and their subcategories
type CategoryService struct {
	d Doer
}

// CategoryPayload is used for both create and update; zero fields are omitted
type CategoryPayload struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       *int   `json:"order,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type SubcategoryPayload struct {
	CategoryID  string `json:"categoryId,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       *int   `json:"order,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// List calls GET /categories
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.d.Get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get calls GET /categories/{id}
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.d.Get(ctx, "/categories/"+seg(id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, payload CategoryPayload) (*models.Category, error) {
	var c models.Category
	if err := s.d.Post(ctx, "/categories", payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, payload CategoryPayload) (*models.Category, error) {
	var c models.Category
	if err := s.d.Patch(ctx, "/categories/"+seg(id), payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/categories/"+seg(id), nil)
}

func (s *CategoryService) CreateSubcategory(ctx context.Context, payload SubcategoryPayload) (*models.Subcategory, error) {
	var sc models.Subcategory
	if err := s.d.Post(ctx, "/categories/subcategories", payload, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *CategoryService) UpdateSubcategory(ctx context.Context, id string, payload SubcategoryPayload) (*models.Subcategory, error) {
	var sc models.Subcategory
	if err := s.d.Patch(ctx, "/categories/subcategories/"+seg(id), payload, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *CategoryService) DeleteSubcategory(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/categories/subcategories/"+seg(id), nil)
}
