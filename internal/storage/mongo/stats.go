package mongo

import (
	"context"
	"fmt"

	"github.com/Abhay69095/Buildmart/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DashboardStats считает сводку для админ-панели:
// сумма продаж через агрегационный pipeline, количества — через
// CountDocuments, последние заказы — обычной выборкой с лимитом.
func (m *Mongo) DashboardStats(ctx context.Context, recentLimit int64) (*models.DashboardStats, error) {
	const op = "storage/mongo/DashboardStats"

	pipeline := []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cur, err := m.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}

	var totalSales float64
	for cur.Next(ctx) {
		var row struct {
			Total float64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			cur.Close(ctx)
			return nil, fmt.Errorf("%s: decode total: %w", op, err)
		}
		totalSales = row.Total
	}
	cur.Close(ctx)

	totalOrders, err := m.orders.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: count orders: %w", op, err)
	}

	totalProducts, err := m.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: count products: %w", op, err)
	}

	activeUsers, err := m.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: count users: %w", op, err)
	}

	recentCur, err := m.orders.Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(recentLimit))
	if err != nil {
		return nil, fmt.Errorf("%s: recent orders: %w", op, err)
	}
	defer recentCur.Close(ctx)

	var recent []models.Order
	for recentCur.Next(ctx) {
		var doc orderDoc
		if err := recentCur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode order: %w", op, err)
		}
		recent = append(recent, doc.model())
	}

	if err := recentCur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return &models.DashboardStats{
		TotalSales:    totalSales,
		TotalOrders:   totalOrders,
		TotalProducts: totalProducts,
		ActiveUsers:   activeUsers,
		RecentOrders:  recent,
	}, nil
}
