package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// refreshTokenDoc — запись refresh-токена в MongoDB.
// Хранится только хэш токена; TTL-индекс по expires_at подчищает
// просроченные записи без участия приложения.
type refreshTokenDoc struct {
	TokenHash string    `bson:"token_hash"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// SaveRefreshToken сохраняет новую запись refresh-токена.
// Коллизия хэша — storage.ErrAlreadyExists.
func (m *Mongo) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const op = "storage/mongo/SaveRefreshToken"

	doc := refreshTokenDoc{
		TokenHash: token.TokenHash,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt.UTC().Truncate(time.Millisecond),
		ExpiresAt: token.ExpiresAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := m.refreshTokens.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshTokenByHash находит запись по хэшу токена.
func (m *Mongo) RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const op = "storage/mongo/RefreshTokenByHash"

	var doc refreshTokenDoc
	if err := m.refreshTokens.FindOne(ctx, bson.D{{Key: "token_hash", Value: hash}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.RefreshToken{
		TokenHash: doc.TokenHash,
		UserID:    doc.UserID,
		CreatedAt: doc.CreatedAt.UTC(),
		ExpiresAt: doc.ExpiresAt.UTC(),
	}, nil
}

// DeleteRefreshToken удаляет запись по хэшу (отзыв сессии).
// Отсутствие записи — storage.ErrNotFound.
func (m *Mongo) DeleteRefreshToken(ctx context.Context, hash string) error {
	const op = "storage/mongo/DeleteRefreshToken"

	res, err := m.refreshTokens.DeleteOne(ctx, bson.D{{Key: "token_hash", Value: hash}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
