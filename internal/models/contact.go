package models

import "time"

// Статусы обращения с формы обратной связи.
const (
	ContactUnread = "unread"
	ContactRead   = "read"
)

// Contact — обращение покупателя (форма «связаться с нами»).
// Все поля формы обязательны; Email нормализуется в нижний регистр.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
