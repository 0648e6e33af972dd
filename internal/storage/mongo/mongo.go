// Package mongo реализует storage.Storage поверх MongoDB.
//
// Документная модель повторяет исходную схему магазина: коллекции
// users/products/orders/contacts/activities/refresh_tokens. Индексы
// создаются при старте (ensureIndexes): уникальность email и хэша
// refresh-токена, TTL-индекс на истечение refresh-токенов и сортировочные
// индексы по created_at.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Abhay69095/Buildmart/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection         = "users"
	productsCollection      = "products"
	ordersCollection        = "orders"
	contactsCollection      = "contacts"
	activitiesCollection    = "activities"
	refreshTokensCollection = "refresh_tokens"

	defaultDBName = "buildmart"
)

// Mongo — тонкий адаптер подключения и коллекций MongoDB.
type Mongo struct {
	client        *mongodriver.Client
	db            *mongodriver.Database
	users         *mongodriver.Collection
	products      *mongodriver.Collection
	orders        *mongodriver.Collection
	contacts      *mongodriver.Collection
	activities    *mongodriver.Collection
	refreshTokens *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение и обеспечивает индексацию.
func New(ctx context.Context, cfg config.DBConfig) (*Mongo, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.URL))

	m := &Mongo{
		client:        cli,
		db:            db,
		users:         db.Collection(usersCollection),
		products:      db.Collection(productsCollection),
		orders:        db.Collection(ordersCollection),
		contacts:      db.Collection(contactsCollection),
		activities:    db.Collection(activitiesCollection),
		refreshTokens: db.Collection(refreshTokensCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	return m, nil
}

// Close разрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создает индексы, необходимые магазину:
//   - уникальный email пользователя;
//   - уникальный хэш refresh-токена + TTL по expires_at
//     (expireAfterSeconds=0 -> используется метка из документа);
//   - created_at(desc) для списков каталога/заказов/обращений;
//   - timestamp(desc) для журнала активности.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	type idx struct {
		coll   *mongodriver.Collection
		models []mongodriver.IndexModel
	}

	plan := []idx{
		{m.users, []mongodriver.IndexModel{{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		}}},
		{m.refreshTokens, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "token_hash", Value: 1}},
				Options: options.Index().SetName("uniq_token_hash").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
			},
		}},
		{m.products, []mongodriver.IndexModel{{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		}}},
		{m.orders, []mongodriver.IndexModel{{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		}}},
		{m.contacts, []mongodriver.IndexModel{{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		}}},
		{m.activities, []mongodriver.IndexModel{{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_desc"),
		}}},
	}

	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.models); err != nil {
			return fmt.Errorf("mongo ensure indexes (%s): %w", p.coll.Name(), err)
		}
	}

	return nil
}

// databaseFromURI извлекает имя БД из пути mongodb-URI.
// Если оно отсутствует или не разбирается — возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
