// ABOUTME: Landing page section endpoints
// ABOUTME: Sections are read by the home page and managed from the back-office

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// LandingService reads and edits the home page sections
type LandingService struct {
	d Doer
}

type SectionPayload struct {
	Type         string `json:"type,omitempty"` // CAROUSEL, CUSTOM
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	TextPosition string `json:"textPosition,omitempty"`
	BgColor      string `json:"bgColor,omitempty"`
	Order        *int   `json:"order,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

type SectionImagePayload struct {
	SectionID string `json:"sectionId"`
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	Alt       string `json:"alt,omitempty"`
	Order     int    `json:"order"`
}

func (s *LandingService) Sections(ctx context.Context) ([]models.LandingSection, error) {
	var out []models.LandingSection
	if err := s.d.Get(ctx, "/landing/sections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *LandingService) Section(ctx context.Context, id string) (*models.LandingSection, error) {
	var out models.LandingSection
	if err := s.d.Get(ctx, "/landing/sections/"+seg(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LandingService) CreateSection(ctx context.Context, payload SectionPayload) (*models.LandingSection, error) {
	var out models.LandingSection
	if err := s.d.Post(ctx, "/landing/sections", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LandingService) UpdateSection(ctx context.Context, id string, payload SectionPayload) (*models.LandingSection, error) {
	var out models.LandingSection
	if err := s.d.Patch(ctx, "/landing/sections/"+seg(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LandingService) DeleteSection(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/landing/sections/"+seg(id), nil)
}

func (s *LandingService) AddImage(ctx context.Context, payload SectionImagePayload) (*models.SectionImage, error) {
	var out models.SectionImage
	if err := s.d.Post(ctx, "/landing/sections/images", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LandingService) DeleteImage(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/landing/sections/images/"+seg(id), nil)
}
