package domain

// DashboardStats holds the rider's aggregate counters.
type DashboardStats struct {
	ActiveDeliveries    int `json:"activeDeliveries"`
	TodayDeliveries     int `json:"todayDeliveries"`
	CompletedDeliveries int `json:"completedDeliveries"`
	Undelivered         int `json:"undelivered"`
}

// Dashboard is the response of GET /rider/dashboard.
type Dashboard struct {
	Stats        DashboardStats `json:"stats"`
	RecentOrders []Order        `json:"recentOrders"`
}

// OrderList is the response of GET /rider/orders.
type OrderList struct {
	Orders []Order `json:"orders"`
}

// TodayRoute is the response of GET /rider/today-route.
type TodayRoute struct {
	TotalOrders int     `json:"totalOrders"`
	Orders      []Order `json:"orders"`
}

// AuthResult is the response of POST /auth/google.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
