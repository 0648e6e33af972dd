package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

// validateProduct проверяет обязательные поля позиции каталога.
func validateProduct(p models.Product) error {
	const op = "service.products.validateProduct"

	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%s: %w", op, ErrValidation)
	}

	if p.Price <= 0 || p.Stock < 0 {
		return fmt.Errorf("%s: %w", op, ErrValidation)
	}

	return nil
}

// ListProducts возвращает каталог, новые первыми.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "service.products.ListProducts"

	out, err := s.storage.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ProductByID возвращает позицию каталога.
func (s *Service) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	const op = "service.products.ProductByID"

	product, err := s.storage.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

// CreateProduct добавляет позицию в каталог.
func (s *Service) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "service.products.CreateProduct"

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	out, err := s.storage.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateProduct замещает изменяемые поля позиции.
func (s *Service) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	const op = "service.products.UpdateProduct"

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	out, err := s.storage.UpdateProduct(ctx, id, product)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteProduct удаляет позицию каталога.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	const op = "service.products.DeleteProduct"

	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
