// ABOUTME: Shipping address endpoints
// ABOUTME: Payloads are validated locally before any call reaches the network

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/validation"
)

// AddressService manages saved shipping addresses
type AddressService struct {
	d Doer
}

func (s *AddressService) List(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := s.d.Get(ctx, "/address", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AddressService) Get(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	if err := s.d.Get(ctx, "/address/"+seg(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create validates payload and calls POST /address
func (s *AddressService) Create(ctx context.Context, payload models.AddressPayload) (*models.Address, error) {
	payload = validation.NormalizeAddress(payload)
	if err := validation.Address(payload); err != nil {
		return nil, err
	}

	var a models.Address
	if err := s.d.Post(ctx, "/address", payload, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update validates payload and calls PATCH /address/{id}
func (s *AddressService) Update(ctx context.Context, id string, payload models.AddressPayload) (*models.Address, error) {
	payload = validation.NormalizeAddress(payload)
	if err := validation.Address(payload); err != nil {
		return nil, err
	}

	var a models.Address
	if err := s.d.Patch(ctx, "/address/"+seg(id), payload, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AddressService) SetDefault(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	if err := s.d.Patch(ctx, "/address/"+seg(id)+"/set-default", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AddressService) Delete(ctx context.Context, id string) error {
	return s.d.Delete(ctx, "/address/"+seg(id), nil)
}
