package models

// DashboardStats — сводка для админ-панели.
// TotalSales — сумма Amount по всем заказам; RecentOrders — последние
// заказы (количество ограничено конфигурацией).
type DashboardStats struct {
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int64   `json:"totalOrders"`
	TotalProducts int64   `json:"totalProducts"`
	ActiveUsers   int64   `json:"activeUsers"`
	RecentOrders  []Order `json:"recentOrders"`
}
