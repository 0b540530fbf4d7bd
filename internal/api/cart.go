// ABOUTME: Shopping cart endpoints
// ABOUTME: Every mutation returns the whole cart with recomputed totals

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// CartService manages the server-side cart
type CartService struct {
	d Doer
}

func (s *CartService) Get(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.d.Get(ctx, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Add puts quantity units of a variant in the cart
func (s *CartService) Add(ctx context.Context, variantID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	body := map[string]any{"variantId": variantID, "quantity": quantity}
	if err := s.d.Post(ctx, "/cart", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, itemID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	body := map[string]int{"quantity": quantity}
	if err := s.d.Patch(ctx, "/cart/items/"+seg(itemID), body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.d.Delete(ctx, "/cart/items/"+seg(itemID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) Clear(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.d.Delete(ctx, "/cart", &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
