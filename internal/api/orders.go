// ABOUTME: Order endpoints for customers and the back-office
// ABOUTME: Status changes are checked against the order flow before they are sent

package api

import (
	"context"
	"fmt"
	"io"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/validation"
)

// OrderService covers checkout, order history and admin status changes
type OrderService struct {
	d       Doer
	uploads *UploadService
}

// OrderPayload is the body of POST /orders; the server builds items from the cart
type OrderPayload struct {
	AddressID     string               `json:"addressId"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	CustomerNotes string               `json:"customerNotes,omitempty"`
}

func (s *OrderService) Create(ctx context.Context, payload OrderPayload) (*models.Order, error) {
	if payload.AddressID == "" {
		return nil, validation.NewError("addressId", "la dirección es requerida")
	}
	var o models.Order
	if err := s.d.Post(ctx, "/orders", payload, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Mine lists the current user's orders
func (s *OrderService) Mine(ctx context.Context, filters OrderFilters) (*models.Paginated[models.Order], error) {
	var page models.Paginated[models.Order]
	if err := s.d.Get(ctx, "/orders", filters.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.d.Get(ctx, "/orders/"+seg(id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// All lists every order (admin)
func (s *OrderService) All(ctx context.Context, filters OrderFilters) (*models.Paginated[models.Order], error) {
	var page models.Paginated[models.Order]
	if err := s.d.Get(ctx, "/orders/all", filters.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateStatus moves order to status. The move must be one the flow allows
// from the order's current status.
func (s *OrderService) UpdateStatus(ctx context.Context, order *models.Order, status models.OrderStatus, adminNotes string) (*models.Order, error) {
	if err := validation.StatusChange(order.Status, status); err != nil {
		return nil, err
	}

	body := struct {
		Status     models.OrderStatus `json:"status"`
		AdminNotes string             `json:"adminNotes,omitempty"`
	}{status, adminNotes}

	var o models.Order
	if err := s.d.Patch(ctx, "/orders/"+seg(order.ID)+"/status", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AttachPaymentProof uploads the proof file and links its URL to the order
func (s *OrderService) AttachPaymentProof(ctx context.Context, orderID, filename string, r io.Reader) (*models.UploadResult, error) {
	uploaded, err := s.uploads.PaymentProof(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("uploading payment proof: %w", err)
	}

	body := map[string]string{"paymentProof": uploaded.URL}
	if err := s.d.Patch(ctx, "/orders/"+seg(orderID)+"/payment-proof", body, nil); err != nil {
		return nil, err
	}
	return uploaded, nil
}
