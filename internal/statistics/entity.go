// AngelaMos | 2026
// entity.go

package statistics

import (
	"github.com/shopspring/decimal"
)

type UserStats struct {
	TotalUsers        int `db:"total_users"         json:"total_users"`
	TotalAdmins       int `db:"total_admins"        json:"total_admins"`
	TotalCustomers    int `db:"total_customers"     json:"total_customers"`
	TotalStaff        int `db:"total_staff"         json:"total_staff"`
	NewUsersThisMonth int `db:"new_users_this_month" json:"new_users_this_month"`
}

type OrderStats struct {
	TotalOrders          int `db:"total_orders"           json:"total_orders"`
	PendingOrders        int `db:"pending_orders"         json:"pending_orders"`
	ConfirmedOrders      int `db:"confirmed_orders"       json:"confirmed_orders"`
	ReadyForPickupOrders int `db:"ready_for_pickup_orders" json:"ready_for_pickup_orders"`
	OutForDeliveryOrders int `db:"out_for_delivery_orders" json:"out_for_delivery_orders"`
	DeliveredOrders      int `db:"delivered_orders"       json:"delivered_orders"`
	CancelledOrders      int `db:"cancelled_orders"       json:"cancelled_orders"`
}

type RevenueStats struct {
	TotalRevenue   decimal.Decimal `db:"total_revenue"   json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `db:"monthly_revenue" json:"monthly_revenue"`
	DailyRevenue   decimal.Decimal `db:"daily_revenue"   json:"daily_revenue"`
}

type CatalogStats struct {
	TotalProducts   int `db:"total_products"   json:"total_products"`
	TotalCategories int `db:"total_categories" json:"total_categories"`
}

type TopProduct struct {
	ProductID    int64  `db:"product_id"    json:"product_id"`
	ProductName  string `db:"product_name"  json:"product_name"`
	QuantitySold int    `db:"quantity_sold" json:"quantity_sold"`
}

type Report struct {
	UserStats
	OrderStats
	RevenueStats
	CatalogStats
	TopProducts []TopProduct `json:"top_products"`
}
