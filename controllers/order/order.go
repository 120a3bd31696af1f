package orderControllers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/checkout"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultOrdersLimit = 15
	MaxOrdersLimit     = 100

	// maxDisplayIDAttempts bounds the search for a free display id.
	maxDisplayIDAttempts = 10
)

// Bulk-editable fields and the column each one writes.
var bulkColumns = map[string]string{
	"paymentStatus": "status",
	"orderStatus":   "order_status",
}

// -------- Request Structs --------

type OrderFilter struct {
	OrderStatus   models.OrderStatus
	PaymentStatus models.PaymentStatus
	PaymentMethod models.PaymentMethod
	Search        string
	Page          int
	Limit         int
}

type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

type OrderList struct {
	Orders   []models.Order `json:"orders"`
	Metadata Pagination     `json:"metadata"`
}

type BulkUpdateRequest struct {
	IDs   []string `json:"ids" binding:"required,min=1"`
	Field string   `json:"field" binding:"required,oneof=paymentStatus orderStatus"`
	Value string   `json:"value" binding:"required"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// -------- Core Logic --------

// ListOrders pages through orders newest first. Status and method filters
// run in SQL; the search term matches the display id or customer name,
// case-insensitively, after loading.
func ListOrders(ctx context.Context, db *gorm.DB, f OrderFilter) (OrderList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultOrdersLimit
	}
	if f.Limit > MaxOrdersLimit {
		f.Limit = MaxOrdersLimit
	}
	// keeps the offset from overflowing
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}

	query := db.WithContext(ctx).Model(&models.Order{})
	if f.OrderStatus != "" {
		query = query.Where("order_status = ?", f.OrderStatus)
	}
	if f.PaymentStatus != "" {
		query = query.Where("status = ?", f.PaymentStatus)
	}
	if f.PaymentMethod != "" {
		query = query.Where("payment_method = ?", f.PaymentMethod)
	}
	// reusable for the count and the page queries
	query = query.Session(&gorm.Session{})
	newest := func(q *gorm.DB) *gorm.DB { return q.Order("created_at DESC").Order("id DESC") }

	var orders []models.Order
	var total int64
	offset := (f.Page - 1) * f.Limit

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		var all []models.Order
		if err := newest(query).Find(&all).Error; err != nil {
			log.Printf("❌ Unable to fetch orders: %v", err)
			return OrderList{}, apperrors.External("order.List", "Unable to fetch orders", err)
		}
		matched := make([]models.Order, 0, len(all))
		for _, o := range all {
			if strings.Contains(strings.ToLower(o.DisplayID), search) ||
				strings.Contains(strings.ToLower(o.Customer.Data().Name), search) {
				matched = append(matched, o)
			}
		}
		total = int64(len(matched))
		start := min(offset, len(matched))
		end := min(offset+f.Limit, len(matched))
		orders = matched[start:end]
	} else {
		if err := query.Count(&total).Error; err != nil {
			log.Printf("❌ Unable to count orders: %v", err)
			return OrderList{}, apperrors.External("order.List", "Unable to fetch orders", err)
		}
		if err := newest(query).Limit(f.Limit).Offset(offset).Find(&orders).Error; err != nil {
			log.Printf("❌ Unable to fetch orders: %v", err)
			return OrderList{}, apperrors.External("order.List", "Unable to fetch orders", err)
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(f.Limit)))
	return OrderList{
		Orders: orders,
		Metadata: Pagination{
			Total:       total,
			CurrentPage: f.Page,
			Limit:       f.Limit,
			HasPrevPage: f.Page > 1,
			HasNextPage: totalPages > f.Page,
		},
	}, nil
}

func GetOrder(ctx context.Context, db *gorm.DB, id string) (models.Order, error) {
	var order models.Order
	if err := db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperrors.NotFound("order.Get", "Order not found")
		}
		log.Printf("❌ Failed to fetch order %s: %v", id, err)
		return models.Order{}, apperrors.External("order.Get", "Failed to fetch order", err)
	}
	return order, nil
}

// ListOrdersByIDs returns the orders among ids that still exist, newest
// first.
func ListOrdersByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]models.Order, error) {
	orders := []models.Order{}
	if len(ids) == 0 {
		return orders, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC").Find(&orders).Error; err != nil {
		log.Printf("❌ Failed to fetch customer orders: %v", err)
		return nil, apperrors.External("order.ListByIDs", "Failed to fetch orders", err)
	}
	return orders, nil
}

// PlaceOrder stores a finished checkout.
func PlaceOrder(ctx context.Context, db *gorm.DB, order *models.Order) error {
	if order.OrderStatus == "" {
		order.OrderStatus = models.OrderStatusReceived
	}
	if err := db.WithContext(ctx).Create(order).Error; err != nil {
		log.Printf("❌ Failed to save order %s: %v", order.DisplayID, err)
		return apperrors.External("order.Place", "Failed to save order", err)
	}
	log.Printf("✅ Order %s placed (%s, %s)", order.DisplayID, order.PaymentMethod, order.TotalAmount.StringFixed(2))
	return nil
}

func DisplayIDTaken(ctx context.Context, db *gorm.DB, displayID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Order{}).Where("display_id = ?", displayID).Count(&count).Error
	return count > 0, err
}

// NewDisplayID draws display ids until one is unused.
func NewDisplayID(ctx context.Context, db *gorm.DB, r checkout.Rand) (string, error) {
	for attempt := 0; attempt < maxDisplayIDAttempts; attempt++ {
		id := checkout.NewDisplayID(r)
		taken, err := DisplayIDTaken(ctx, db, id)
		if err != nil {
			log.Printf("❌ Failed to check display id %s: %v", id, err)
			return "", apperrors.External("order.DisplayID", "Failed to create order id", err)
		}
		if !taken {
			return id, nil
		}
	}
	log.Printf("⚠️ No free display id after %d attempts", maxDisplayIDAttempts)
	return "", apperrors.BusinessRule("order.DisplayID", "Could not allocate an order id, please try again")
}

// BulkUpdate sets field (paymentStatus or orderStatus) to value on every
// order in ids, or on none of them.
func BulkUpdate(ctx context.Context, db *gorm.DB, ids []string, field, value string) (int, error) {
	column, ok := bulkColumns[field]
	if !ok {
		return 0, apperrors.Validation("order.BulkUpdate", "field must be paymentStatus or orderStatus")
	}
	switch field {
	case "paymentStatus":
		if !models.PaymentStatus(value).Valid() {
			return 0, apperrors.Validation("order.BulkUpdate", "Invalid payment status")
		}
	case "orderStatus":
		if !models.OrderStatus(value).Valid() {
			return 0, apperrors.Validation("order.BulkUpdate", "Invalid order status")
		}
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.Validation("order.BulkUpdate", "ids are required")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll(tx, ids, "order.BulkUpdate"); err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{column: value, "updated_at": time.Now().UTC()}).Error
	})
	if err != nil {
		return 0, bulkError("order.BulkUpdate", err)
	}
	log.Printf("📝 %d orders updated: %s = %s", len(ids), field, value)
	return len(ids), nil
}

// BulkDelete removes every order in ids, or none of them.
func BulkDelete(ctx context.Context, db *gorm.DB, ids []string) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.Validation("order.BulkDelete", "ids are required")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll(tx, ids, "order.BulkDelete"); err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Order{}).Error
	})
	if err != nil {
		return 0, bulkError("order.BulkDelete", err)
	}
	log.Printf("📝 %d orders deleted", len(ids))
	return len(ids), nil
}

// MarkPaidByIntent sets the order paid by the given intent to "Pago".
// It reports whether such an order exists.
func MarkPaidByIntent(ctx context.Context, db *gorm.DB, intentID string) (bool, error) {
	result := db.WithContext(ctx).Model(&models.Order{}).
		Where("stripe_payment_intent_id = ?", intentID).
		Updates(map[string]interface{}{"status": models.PaymentStatusPaid, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		log.Printf("❌ Failed to mark order paid for intent %s: %v", intentID, result.Error)
		return false, apperrors.External("order.MarkPaid", "Failed to update order", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// requireAll locks the rows for ids and fails listing the ones missing.
func requireAll(tx *gorm.DB, ids []string, op string) error {
	var found []string
	if err := tx.Model(&models.Order{}).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	seen := make(map[string]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return apperrors.NotFound(op, "Orders not found: "+strings.Join(missing, ", "))
}

func bulkError(op string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	log.Printf("❌ %s failed: %v", op, err)
	return apperrors.External(op, "Failed to update orders", err)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// -------- Handlers --------

// FilterFromQuery reads the console filters from the query string.
func FilterFromQuery(c *gin.Context) OrderFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultOrdersLimit)))
	return OrderFilter{
		OrderStatus:   models.OrderStatus(c.Query("orderStatus")),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
		PaymentMethod: models.PaymentMethod(c.Query("paymentMethod")),
		Search:        c.Query("search"),
		Page:          page,
		Limit:         limit,
	}
}

// GET /admin/orders (JSON)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := ListOrders(c.Request.Context(), db, FilterFromQuery(c))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /admin/orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := GetOrder(c.Request.Context(), db, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PATCH /admin/orders/bulk
func BulkUpdateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BulkUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids, field (paymentStatus|orderStatus) and value are required"})
			return
		}
		n, err := BulkUpdate(c.Request.Context(), db, req.IDs, req.Field, req.Value)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Orders updated successfully", "updated": n})
	}
}

// DELETE /admin/orders/bulk
func BulkDeleteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BulkDeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
			return
		}
		n, err := BulkDelete(c.Request.Context(), db, req.IDs)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Orders deleted successfully", "deleted": n})
	}
}
