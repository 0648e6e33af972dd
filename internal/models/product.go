package models

import "time"

// Product — позиция каталога стройматериалов.
// Name/Category/Price/Stock обязательны; Description и ImageURL опциональны.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
