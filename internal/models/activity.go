package models

import "time"

// Действия, фиксируемые в журнале активности.
const (
	ActivityRegister            = "REGISTER"
	ActivityLogout              = "LOGOUT"
	ActivityPromoteAdmin        = "PROMOTE_ADMIN"
	ActivityNewContact          = "NEW_CONTACT"
	ActivityUpdateContactStatus = "UPDATE_CONTACT_STATUS"
	ActivityDeleteContact       = "DELETE_CONTACT"
	ActivityNewOrder            = "NEW_ORDER"
)

// Activity — запись аудита действий (best-effort: сбой записи
// логируется, но не роняет операцию).
// UserID может быть пустым для анонимных действий (обращение с формы).
type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId,omitempty"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
