// Package storage задает контракты работы с хранилищем BuildMart и
// сентинельные ошибки, на которые опирается слой бизнес-логики.
package storage

import (
	"context"
	"errors"

	"github.com/Abhay69095/Buildmart/internal/models"
)

var (
	// ErrNotFound — запись отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/хэш refresh-токена).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя; присваивает ID.
	// При занятом email — ErrAlreadyExists.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (в нижнем регистре).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id string) (*models.User, error)
	// ListUsers возвращает всех пользователей, новые первыми.
	ListUsers(ctx context.Context) ([]models.User, error)
	// PromoteUser назначает пользователю роль admin.
	PromoteUser(ctx context.Context, id string) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новую запись refresh-токена.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит запись по хэшу токена.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// DeleteRefreshToken удаляет запись по хэшу (отзыв сессии).
	DeleteRefreshToken(ctx context.Context, hash string) error
}

// ProductStorage выполняет операции над каталогом.
type ProductStorage interface {
	// CreateProduct создает позицию каталога; возвращает ее с ID.
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	// ProductByID возвращает позицию по ID.
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	// ListProducts возвращает каталог, новые первыми.
	ListProducts(ctx context.Context) ([]models.Product, error)
	// UpdateProduct замещает изменяемые поля позиции; возвращает обновленную.
	UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error)
	// DeleteProduct удаляет позицию.
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStorage выполняет операции над заказами.
type OrderStorage interface {
	// CreateOrder создает заказ; возвращает его с ID.
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	// ListOrders возвращает все заказы, новые первыми.
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// ContactStorage выполняет операции над обращениями.
type ContactStorage interface {
	// CreateContact сохраняет обращение; возвращает его с ID.
	CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error)
	// ListContacts возвращает все обращения, новые первыми.
	ListContacts(ctx context.Context) ([]models.Contact, error)
	// UpdateContactStatus меняет статус обращения (read/unread).
	UpdateContactStatus(ctx context.Context, id, status string) (*models.Contact, error)
	// DeleteContact удаляет обращение.
	DeleteContact(ctx context.Context, id string) error
}

// ActivityStorage выполняет операции над журналом активности.
type ActivityStorage interface {
	// SaveActivity добавляет запись аудита.
	SaveActivity(ctx context.Context, activity models.Activity) error
	// ListActivities возвращает последние записи, новые первыми.
	ListActivities(ctx context.Context, limit int64) ([]models.Activity, error)
}

// StatsStorage считает агрегаты для админ-панели.
type StatsStorage interface {
	// DashboardStats возвращает сводку по продажам/заказам/каталогу.
	DashboardStats(ctx context.Context, recentLimit int64) (*models.DashboardStats, error)
}

// Storage задает полный контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	ProductStorage
	OrderStorage
	ContactStorage
	ActivityStorage
	StatsStorage
	Close(ctx context.Context) error
}
