package services

import (
	"smmpanel-backend/internal/baratosocial"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrOrderMissingUpstreamID = errors.New("order has no upstream id")
)

// QuantityRangeError is returned when the requested quantity falls outside the
// service's inclusive [min, max] bounds.
type QuantityRangeError struct {
	Min int
	Max int
}

func (e *QuantityRangeError) Error() string {
	return fmt.Sprintf("quantity must be between %d and %d", e.Min, e.Max)
}

// UpstreamError carries a logical error reported by the reseller API, surfaced
// verbatim to the caller.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// PlaceOrderInput is a validated order request.
type PlaceOrderInput struct {
	ServiceID int64
	Link      string
	Quantity  int
	Comments  string
	Runs      int
	Interval  int
}

// OrderFilter drives paginated order listings.
type OrderFilter struct {
	UserID *uint
	Status *string
	Page   int
	Limit  int
}

// ComputeCharge applies the pricing formula: the marked-up per-1000 rate times
// the quantity, divided by 1000 to match the upstream unit convention.
func ComputeCharge(rate, profitMargin float64, quantity int) float64 {
	finalRate := rate * (1 + profitMargin/100)
	return finalRate * float64(quantity) / 1000
}

// PlaceOrder runs the full placement flow: service and quantity validation,
// pricing with the margin in effect right now, balance check, upstream
// submission, then one database transaction debiting the balance and recording
// the order plus its ledger row. The upstream call and the local commit are
// deliberately sequential; a logical upstream error leaves no local trace.
func PlaceOrder(userID uint, in PlaceOrderInput, settings *PanelSettings, client *baratosocial.Client) (*models.Order, error) {
	service, err := GetActiveServiceByServiceID(in.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.Quantity < service.Min || in.Quantity > service.Max {
		return nil, &QuantityRangeError{Min: service.Min, Max: service.Max}
	}

	charge := ComputeCharge(service.Rate, settings.ProfitMargin, in.Quantity)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Balance < charge {
		return nil, ErrInsufficientBalance
	}

	resp, err := client.Order(baratosocial.OrderRequest{
		Service:  service.ServiceID,
		Link:     in.Link,
		Quantity: in.Quantity,
		Comments: in.Comments,
		Runs:     in.Runs,
		Interval: in.Interval,
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}

	var order *models.Order
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&user, userID).Error; err != nil {
			return err
		}

		balanceBefore := user.Balance
		user.Balance -= charge
		user.Version++
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		order = &models.Order{
			UserID:      user.ID,
			ServiceID:   service.ServiceID,
			ServiceName: service.Name,
			Link:        in.Link,
			Quantity:    in.Quantity,
			Charge:      charge,
			Status:      models.OrderStatusPending,
		}
		if resp.Order > 0 {
			upstreamID := int64(resp.Order)
			order.BaratoOrderID = &upstreamID
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		reason := fmt.Sprintf("Order %s x%d", service.Name, in.Quantity)
		return recordTransaction(tx, &user, -charge, balanceBefore, reason, user.Username, user.ID, models.TransactionTypeOrderCharge)
	})
	if err != nil {
		return nil, err
	}

	InvalidateUserCache(user.ID)

	return order, nil
}

// GetUserOrder fetches one order scoped to its owner.
func GetUserOrder(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := database.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// RefreshOrderStatus polls upstream for a single order and writes back the
// status and start count.
func RefreshOrderStatus(userID, orderID uint, client *baratosocial.Client) (*models.Order, error) {
	order, err := GetUserOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.BaratoOrderID == nil {
		return nil, ErrOrderMissingUpstreamID
	}

	resp, err := client.Status(*order.BaratoOrderID)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	if resp.Status == "" {
		return nil, errors.New("upstream returned no status")
	}

	order.Status = resp.Status
	if resp.StartCount > 0 {
		order.StartCount = int(resp.StartCount)
	}
	order.UpdatedAt = time.Now()
	if err := database.DB.Save(order).Error; err != nil {
		return nil, err
	}

	return order, nil
}

// SyncPendingOrders batch-reconciles the caller's open orders against upstream.
// Upstream entries are matched back to local orders by string equality of the
// upstream order id; unmatched entries are ignored. Returns the number of
// orders updated.
func SyncPendingOrders(userID uint, client *baratosocial.Client) (int, error) {
	var pending []models.Order
	err := database.DB.
		Where("user_id = ?", userID).
		Where("status IN ?", models.PendingOrderStatuses).
		Where("barato_order_id IS NOT NULL").
		Find(&pending).Error
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(pending))
	for _, order := range pending {
		ids = append(ids, *order.BaratoOrderID)
	}

	statuses, err := client.MultiStatus(ids)
	if err != nil {
		return 0, err
	}

	byUpstreamID := make(map[string]baratosocial.StatusResponse, len(statuses))
	for _, s := range statuses {
		byUpstreamID[strconv.FormatInt(int64(s.Order), 10)] = s
	}

	updated := 0
	for i := range pending {
		order := &pending[i]
		s, ok := byUpstreamID[strconv.FormatInt(*order.BaratoOrderID, 10)]
		if !ok || s.Status == "" {
			continue
		}

		order.Status = s.Status
		if s.StartCount > 0 {
			order.StartCount = int(s.StartCount)
		}
		order.UpdatedAt = time.Now()
		if err := database.DB.Save(order).Error; err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

// FindOrders queries orders with optional user and status filters, newest first.
func FindOrders(filter OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := database.DB.Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
