package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contactDoc — обращение с формы обратной связи в MongoDB.
type contactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d contactDoc) model() models.Contact {
	return models.Contact{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Message:   d.Message,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// CreateContact сохраняет обращение.
func (m *Mongo) CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	const op = "storage/mongo/CreateContact"

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := contactDoc{
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Message:   contact.Message,
		Status:    contact.Status,
		CreatedAt: now,
	}

	res, err := m.contacts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	contact.ID = oid.Hex()
	contact.CreatedAt = now
	return &contact, nil
}

// ListContacts возвращает все обращения, новые первыми.
func (m *Mongo) ListContacts(ctx context.Context) ([]models.Contact, error) {
	const op = "storage/mongo/ListContacts"

	cur, err := m.contacts.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.Contact
	for cur.Next(ctx) {
		var doc contactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out = append(out, doc.model())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

// UpdateContactStatus меняет статус обращения и возвращает обновленное.
func (m *Mongo) UpdateContactStatus(ctx context.Context, id, status string) (*models.Contact, error) {
	const op = "storage/mongo/UpdateContactStatus"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc contactDoc
	err = m.contacts.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// DeleteContact удаляет обращение.
func (m *Mongo) DeleteContact(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteContact"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.contacts.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
