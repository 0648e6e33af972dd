package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhay69095/Buildmart/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activityDoc — запись аудита в MongoDB.
type activityDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id,omitempty"`
	Action    string             `bson:"action"`
	Details   map[string]any     `bson:"details,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`
}

// SaveActivity добавляет запись аудита.
func (m *Mongo) SaveActivity(ctx context.Context, activity models.Activity) error {
	const op = "storage/mongo/SaveActivity"

	doc := activityDoc{
		UserID:    activity.UserID,
		Action:    activity.Action,
		Details:   activity.Details,
		Timestamp: activity.Timestamp.UTC().Truncate(time.Millisecond),
	}

	if _, err := m.activities.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListActivities возвращает последние записи аудита, новые первыми.
func (m *Mongo) ListActivities(ctx context.Context, limit int64) ([]models.Activity, error) {
	const op = "storage/mongo/ListActivities"

	cur, err := m.activities.Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.Activity
	for cur.Next(ctx) {
		var doc activityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out = append(out, models.Activity{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			Action:    doc.Action,
			Details:   doc.Details,
			Timestamp: doc.Timestamp.UTC(),
		})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}
