// ABOUTME: Back-office statistics and the public BCV exchange rate
// ABOUTME: Thin wrappers over single GET endpoints

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// DashboardService reads back-office statistics
type DashboardService struct {
	d Doer
}

// Stats calls GET /admin/dashboard/stats
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := s.d.Get(ctx, "/admin/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BCVService reads the official exchange rate
type BCVService struct {
	d Doer
}

// Rate calls GET /bcv/rate
func (s *BCVService) Rate(ctx context.Context) (*models.BcvRate, error) {
	var out models.BcvRate
	if err := s.d.Get(ctx, "/bcv/rate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
