package service

import (
	"context"
	"fmt"

	"github.com/Abhay69095/Buildmart/internal/models"
)

// DashboardStats возвращает сводку для админ-панели.
func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "service.stats.DashboardStats"

	out, err := s.storage.DashboardStats(ctx, s.limits.RecentOrders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if out.RecentOrders == nil {
		out.RecentOrders = []models.Order{}
	}

	return out, nil
}
