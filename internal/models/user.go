// Package models содержит доменные сущности магазина BuildMart.
package models

import "time"

// Роли пользователей. Любое другое значение поля Role считается
// некорректным и трактуется как отсутствие прав.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — учетная запись покупателя или администратора.
// Важно:
//   - ID — hex ObjectID MongoDB; наружу отдается строкой.
//   - Email уникален (уникальный индекс в хранилище), хранится в нижнем регистре.
//   - Password — bcrypt-хэш; наружу никогда не отдается.
//   - Учетные записи не удаляются физически.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin сообщает, обладает ли пользователь административной ролью.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
