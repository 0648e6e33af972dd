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

// orderDoc — заказ в MongoDB.
type orderDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	ProductID    string             `bson:"product_id"`
	CustomerName string             `bson:"customer_name"`
	ProductName  string             `bson:"product_name"`
	Quantity     int64              `bson:"quantity"`
	Amount       float64            `bson:"amount"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d orderDoc) model() models.Order {
	return models.Order{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		ProductID:    d.ProductID,
		CustomerName: d.CustomerName,
		ProductName:  d.ProductName,
		Quantity:     d.Quantity,
		Amount:       d.Amount,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// CreateOrder создает заказ.
func (m *Mongo) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	const op = "storage/mongo/CreateOrder"

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := orderDoc{
		UserID:       order.UserID,
		ProductID:    order.ProductID,
		CustomerName: order.CustomerName,
		ProductName:  order.ProductName,
		Quantity:     order.Quantity,
		Amount:       order.Amount,
		Status:       order.Status,
		CreatedAt:    now,
	}

	res, err := m.orders.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	order.ID = oid.Hex()
	order.CreatedAt = now
	return &order, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (m *Mongo) ListOrders(ctx context.Context) ([]models.Order, error) {
	const op = "storage/mongo/ListOrders"

	cur, err := m.orders.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.Order
	for cur.Next(ctx) {
		var doc orderDoc
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
