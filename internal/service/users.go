package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

// ListUsers возвращает всех пользователей, новые первыми.
// Хэши паролей обнуляются перед отдачей наружу.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "service.users.ListUsers"

	out, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range out {
		out[i].Password = ""
	}

	return out, nil
}

// PromoteUser назначает пользователю роль admin.
func (s *Service) PromoteUser(ctx context.Context, actor *models.User, userID string) (*models.User, error) {
	const op = "service.users.PromoteUser"

	user, err := s.storage.PromoteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, actor.ID, models.ActivityPromoteAdmin, map[string]any{
		"promotedUser": userID,
	})

	user.Password = ""
	return user, nil
}
