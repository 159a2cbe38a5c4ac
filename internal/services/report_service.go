package services

import (
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"time"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TotalUsers       int64   `json:"total_users"`
	ActiveUsers      int64   `json:"active_users"` // users with orders in the last 30 days
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	MonthRevenue     float64 `json:"month_revenue"`
	TotalUserBalance float64 `json:"total_user_balance"`
	PendingPayments  int64   `json:"pending_payments"`
}

// RecentActivity bundles the latest records for the admin dashboard feed.
type RecentActivity struct {
	Orders   []models.Order   `json:"orders"`
	Users    []models.User    `json:"users"`
	Payments []models.Payment `json:"payments"`
}

// OrderStats summarizes order volume and revenue.
type OrderStats struct {
	TotalOrders  int64            `json:"total_orders"`
	TodayOrders  int64            `json:"today_orders"`
	TotalRevenue float64          `json:"total_revenue"`
	TodayRevenue float64          `json:"today_revenue"`
	ByStatus     map[string]int64 `json:"by_status"`
}

// GetDashboardStats aggregates the headline numbers. Revenue counts order
// charges, not payment top-ups.
func GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := database.DB

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&models.Order{}).Where("created_at >= ?", since).
		Distinct("user_id").Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status IN ?", models.PendingOrderStatuses).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(charge), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	if err := db.Model(&models.Order{}).Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(charge), 0)").Scan(&stats.MonthRevenue).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.User{}).Select("COALESCE(SUM(balance), 0)").
		Scan(&stats.TotalUserBalance).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).
		Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetRecentActivity returns the latest 10 orders, 5 users and 5 payments.
func GetRecentActivity() (*RecentActivity, error) {
	activity := &RecentActivity{}
	db := database.DB

	if err := db.Order("created_at desc").Limit(10).Find(&activity.Orders).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at desc").Limit(5).Find(&activity.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at desc").Limit(5).Find(&activity.Payments).Error; err != nil {
		return nil, err
	}

	return activity, nil
}

// GetOrderStats summarizes order counts and revenue, overall and for today,
// plus the status distribution.
func GetOrderStats() (*OrderStats, error) {
	stats := &OrderStats{ByStatus: make(map[string]int64)}
	db := database.DB

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := db.Model(&models.Order{}).Where("created_at >= ?", today).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(charge), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", today).
		Select("COALESCE(SUM(charge), 0)").Scan(&stats.TodayRevenue).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) as count").
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	return stats, nil
}
