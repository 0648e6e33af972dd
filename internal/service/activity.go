package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/pkg/log"
)

// logActivity пишет запись аудита best-effort: сбой записи логируется,
// но не влияет на исход операции.
func (s *Service) logActivity(ctx context.Context, userID, action string, details map[string]any) {
	const op = "service.activity.logActivity"

	activity := models.Activity{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	if err := s.storage.SaveActivity(ctx, activity); err != nil {
		log.From(ctx).Warn("activity_log_failed",
			slog.String("op", op),
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
	}
}

// ListActivities возвращает последние записи аудита для админ-панели.
func (s *Service) ListActivities(ctx context.Context) ([]models.Activity, error) {
	const op = "service.activity.ListActivities"

	out, err := s.storage.ListActivities(ctx, s.limits.Activities)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
