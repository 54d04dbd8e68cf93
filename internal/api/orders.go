package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"food_app/internal/domain"  // Order statuses
	"food_app/internal/service" // Order workflow

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values
)

// OrderItemRequest is one cart line; clients send the product id as id or product_id
type OrderItemRequest struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CreateOrderRequest is the checkout body
type CreateOrderRequest struct {
	UserID          uint               `json:"user_id"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Items           []OrderItemRequest `json:"items"`
	PaymentMethod   string             `json:"payment_method"` // cod (default) or wallet
	ShippingAddress string             `json:"shipping_address"`
	Phone           string             `json:"phone"`
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"` // Return reason, kept for returning and returned
}

func (r CreateOrderRequest) input() service.CreateOrderInput {
	items := make([]service.OrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		productID := it.ProductID
		if productID == 0 {
			productID = it.ID
		}
		items = append(items, service.OrderItemInput{
			ProductID: productID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return service.CreateOrderInput{
		UserID:          r.UserID,
		TotalAmount:     r.TotalAmount,
		Items:           items,
		PaymentMethod:   r.PaymentMethod,
		ShippingAddress: r.ShippingAddress,
		Phone:           r.Phone,
	}
}

// CreateOrderHandler places an order, debiting the wallet for wallet payments
func CreateOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		if req.UserID != 0 && !selfOrAdmin(c, req.UserID) {
			return
		}
		order, err := orders.Create(c.Request.Context(), req.input())
		if err != nil {
			writeError(c, err) // Insufficient balance and missing wallet answer 400
			return
		}
		respond(c, http.StatusCreated, gin.H{
			"message":        "Order created successfully",
			"order_id":       order.ID,
			"payment_method": order.PaymentMethod,
			"order":          order,
		})
	}
}

// ListOrdersHandler returns orders with items, filtered by ?user_id= and ?status=.
// An authenticated non-admin only ever sees their own orders.
func ListOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter service.OrderFilter
		if raw := c.Query("user_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				fail(c, http.StatusBadRequest, "Invalid user_id")
				return
			}
			filter.UserID = uint(id)
		}
		if id, admin, authenticated := caller(c); authenticated && !admin && filter.UserID == 0 {
			filter.UserID = id
		}
		if !selfOrAdmin(c, filter.UserID) {
			return
		}
		filter.Status = c.Query("status")
		list, err := orders.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"orders": list})
	}
}

// UpdateOrderStatusHandler applies a status transition and reports whether a refund happened.
// With authentication an admin may request any transition; the owner may only cancel or request a return.
func UpdateOrderStatusHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req UpdateStatusRequest
		if !bindJSON(c, &req) {
			return
		}
		if _, admin, authenticated := caller(c); authenticated && !admin {
			order, err := orders.Details(c.Request.Context(), id)
			if err != nil {
				writeError(c, err)
				return
			}
			if !selfOrAdmin(c, order.UserID) {
				return
			}
			next, err := domain.ParseOrderStatus(req.Status)
			if err != nil {
				writeError(c, err)
				return
			}
			if !next.IsCustomerRequest() {
				fail(c, http.StatusForbidden, "Only an admin can move an order to "+req.Status)
				return
			}
		}
		change, err := orders.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason)
		if err != nil {
			writeError(c, err) // Unknown status 400, missing order 404, illegal move 409
			return
		}
		respond(c, http.StatusOK, gin.H{
			"message":         "Order status updated",
			"previous_status": change.Previous,
			"refunded":        change.Refunded,
			"order":           change.Order,
		})
	}
}

// OrderDetailsHandler returns one order with its items
func OrderDetailsHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := orders.Details(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if !selfOrAdmin(c, order.UserID) {
			return
		}
		respond(c, http.StatusOK, gin.H{"order": order})
	}
}

// OrderItemsHandler returns the items of one order
func OrderItemsHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := orders.Details(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if !selfOrAdmin(c, order.UserID) {
			return
		}
		respond(c, http.StatusOK, gin.H{"items": order.Items})
	}
}
