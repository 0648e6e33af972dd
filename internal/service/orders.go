package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

// CreateOrder оформляет заказ от имени аутентифицированного пользователя.
// Сумма считается по текущей цене товара; имена покупателя и товара
// денормализуются в заказ для админ-панели.
func (s *Service) CreateOrder(ctx context.Context, user *models.User, productID string, quantity int64) (*models.Order, error) {
	const op = "service.orders.CreateOrder"

	if quantity < 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrValidation)
	}

	product, err := s.storage.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := models.Order{
		UserID:       user.ID,
		ProductID:    product.ID,
		CustomerName: user.Name,
		ProductName:  product.Name,
		Quantity:     quantity,
		Amount:       product.Price * float64(quantity),
		Status:       models.OrderPending,
	}

	out, err := s.storage.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, user.ID, models.ActivityNewOrder, map[string]any{
		"orderId":   out.ID,
		"productId": product.ID,
	})

	return out, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	const op = "service.orders.ListOrders"

	out, err := s.storage.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
