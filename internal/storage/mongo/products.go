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

// productDoc — позиция каталога в MongoDB.
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Stock       int64              `bson:"stock"`
	Description string             `bson:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// CreateProduct создает позицию каталога.
func (m *Mongo) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "storage/mongo/CreateProduct"

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := productDoc{
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Stock:       product.Stock,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		CreatedAt:   now,
	}

	res, err := m.products.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	product.ID = oid.Hex()
	product.CreatedAt = now
	return &product, nil
}

// ProductByID возвращает позицию по ID.
func (m *Mongo) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage/mongo/ProductByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc productDoc
	if err := m.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// ListProducts возвращает каталог, новые первыми.
func (m *Mongo) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage/mongo/ListProducts"

	cur, err := m.products.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.Product
	for cur.Next(ctx) {
		var doc productDoc
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

// UpdateProduct замещает изменяемые поля позиции и возвращает обновленную.
func (m *Mongo) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	const op = "storage/mongo/UpdateProduct"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	set := bson.D{
		{Key: "name", Value: product.Name},
		{Key: "category", Value: product.Category},
		{Key: "price", Value: product.Price},
		{Key: "stock", Value: product.Stock},
		{Key: "description", Value: product.Description},
		{Key: "image_url", Value: product.ImageURL},
	}

	var doc productDoc
	err = m.products.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
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

// DeleteProduct удаляет позицию каталога.
func (m *Mongo) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteProduct"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
