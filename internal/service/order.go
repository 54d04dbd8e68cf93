package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food_app/internal/domain"
	"food_app/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnknownProductName labels an item with neither snapshot nor catalog name
const UnknownProductName = "Unknown product"

// OrderItemInput is one cart line as submitted by the client
type OrderItemInput struct {
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// CreateOrderInput is a cart submitted for checkout
type CreateOrderInput struct {
	UserID          uint
	TotalAmount     decimal.Decimal
	Items           []OrderItemInput
	PaymentMethod   string
	ShippingAddress string
	Phone           string
}

// OrderFilter narrows an order listing; zero values match everything
type OrderFilter struct {
	UserID uint
	Status string
}

// StatusChange is the outcome of a committed status transition
type StatusChange struct {
	Order    *domain.Order
	Previous domain.OrderStatus
	Refunded bool
}

// OrderService runs the checkout and order lifecycle workflows
type OrderService struct {
	db       *gorm.DB
	products ProductLookup
	notifier Notifier
	wallets  *WalletService
}

func NewOrderService(db *gorm.DB, products ProductLookup, notifier Notifier, wallets *WalletService) *OrderService {
	return &OrderService{db: db, products: products, notifier: notifier, wallets: wallets}
}

// Create validates the cart and, in one transaction, debits the wallet when
// paying by wallet, stores the order header and items and the ledger entry.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	method, items, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		UserID:          in.UserID,
		TotalAmount:     in.TotalAmount,
		Status:          domain.StatusPending,
		PaymentMethod:   method,
		ShippingAddress: in.ShippingAddress,
		Phone:           in.Phone,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if method == domain.PaymentWallet {
			if err := debitWallet(tx, in.UserID, in.TotalAmount); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("create order item %d: %w", i+1, err)
			}
		}
		if method == domain.PaymentWallet {
			return appendLedger(tx, &domain.WalletTransaction{
				UserID:      in.UserID,
				Amount:      in.TotalAmount,
				Direction:   domain.DirectionDebit,
				Type:        domain.TxTypePayment,
				Status:      domain.TxStatusCompleted,
				Description: fmt.Sprintf("Payment for order #%d", order.ID),
				ReferenceID: &order.ID,
			})
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": in.UserID,
			"amount":  in.TotalAmount.String(),
			"method":  method,
			"error":   err.Error(),
		}).Warn("Order creation failed")
		return nil, err
	}
	order.Items = items
	if method == domain.PaymentWallet {
		s.wallets.Invalidate(ctx, in.UserID)
	}
	metrics.OrdersCreated.WithLabelValues(method).Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":  in.UserID,
		"order_id": order.ID,
		"amount":   in.TotalAmount.String(),
		"method":   method,
		"items":    len(items),
	}).Info("Order created")
	return order, nil
}

// prepare validates the cart outside the transaction and resolves missing item names
func (s *OrderService) prepare(ctx context.Context, in *CreateOrderInput) (string, []domain.OrderItem, error) {
	if in.UserID == 0 || !in.TotalAmount.IsPositive() || len(in.Items) == 0 {
		return "", nil, fmt.Errorf("%w: user_id, total_amount and a non-empty items list are required", ErrValidation)
	}
	if !domain.IsMoney(in.TotalAmount) {
		return "", nil, fmt.Errorf("%w: total_amount has more than %d decimal places", ErrValidation, domain.MoneyScale)
	}
	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentCOD
	}
	if !domain.IsValidPaymentMethod(method) {
		return "", nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	if err := userExists(s.db.WithContext(ctx), in.UserID); err != nil {
		return "", nil, err
	}
	items := make([]domain.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == 0 || it.Quantity < 1 || it.Price.IsNegative() {
			return "", nil, fmt.Errorf("%w: item %d needs a product id, a quantity of at least 1 and a non-negative price", ErrValidation, i+1)
		}
		if !domain.IsMoney(it.Price) {
			return "", nil, fmt.Errorf("%w: item %d price has more than %d decimal places", ErrValidation, i+1, domain.MoneyScale)
		}
		name := strings.TrimSpace(it.Name)
		if name == "" {
			p, err := s.products.FindByID(ctx, it.ProductID)
			if err != nil {
				return "", nil, fmt.Errorf("item %d: %w", i+1, err)
			}
			name = p.Name
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	if sum := domain.ItemsTotal(items); !sum.Equal(in.TotalAmount) {
		return "", nil, fmt.Errorf("%w: total_amount %s does not match items total %s", ErrValidation, in.TotalAmount, sum)
	}
	return method, items, nil
}

// UpdateStatus moves an order to a new status. The transition check, refund,
// status write and delivery stamp share one transaction; the owner is notified
// after commit and a failed notification does not undo the change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, rawStatus, reason string) (*StatusChange, error) {
	next, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	var (
		order    domain.Order
		previous domain.OrderStatus
		refunded bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The locked row is the prior status every concurrent transition is checked against
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Order("id").Find(&order.Items).Error; err != nil {
			return fmt.Errorf("load order items: %w", err)
		}
		previous = order.Status
		if _, err := previous.Transition(next); err != nil {
			return err
		}

		if next == domain.StatusReturned && order.PaymentMethod == domain.PaymentWallet {
			if err := creditWallet(tx, order.UserID, order.TotalAmount); err != nil {
				return err
			}
			if err := appendLedger(tx, &domain.WalletTransaction{
				UserID:      order.UserID,
				Amount:      order.TotalAmount,
				Direction:   domain.DirectionCredit,
				Type:        domain.TxTypePayment,
				Status:      domain.TxStatusCompleted,
				Description: fmt.Sprintf("Refund for order #%d: %s", order.ID, describeItems(order.Items)),
				ReferenceID: &order.ID,
			}); err != nil {
				return err
			}
			refunded = true
		}

		updates := map[string]any{"status": next}
		if (next == domain.StatusReturning || next == domain.StatusReturned) && reason != "" {
			updates["return_reason"] = reason
			order.ReturnReason = &reason
		}
		if next == domain.StatusDelivered {
			now := time.Now()
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if refunded {
		s.wallets.Invalidate(ctx, order.UserID)
		metrics.WalletRefunds.Inc()
	}
	metrics.OrderTransitions.WithLabelValues(string(next)).Inc()
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"from":     previous,
		"to":       next,
		"refunded": refunded,
	}).Info("Order status updated")

	if title, message, ok := statusNotice(next, previous, describeItems(order.Items), refunded); ok {
		if err := s.notifier.Notify(ctx, order.UserID, title, message); err != nil {
			metrics.NotificationFailures.Inc()
			logrus.WithFields(logrus.Fields{
				"order_id": order.ID,
				"user_id":  order.UserID,
				"status":   next,
				"error":    err.Error(),
			}).Error("Failed to notify user of status change")
		}
	}
	return &StatusChange{Order: &order, Previous: previous, Refunded: refunded}, nil
}

// List returns orders with their items and owner name, newest first
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := s.db.WithContext(ctx).Model(&domain.Order{}).
		Select("orders.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = orders.user_id")
	if f.UserID != 0 {
		q = q.Where("orders.user_id = ?", f.UserID)
	}
	if f.Status != "" {
		st, err := domain.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, err
		}
		q = q.Where("orders.status = ?", st)
	}
	orders := []domain.Order{}
	if err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("orders.id desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		if err := s.fillItemNames(ctx, orders[i].Items); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListByUser returns one user's orders; an unknown user is ErrUserNotFound
func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	if err := userExists(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	return s.List(ctx, OrderFilter{UserID: userID})
}

// Details returns one order with its items
func (s *OrderService) Details(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if err := s.fillItemNames(ctx, order.Items); err != nil {
		return nil, err
	}
	return &order, nil
}

// Items returns the line items of an order
func (s *OrderService) Items(ctx context.Context, id uint) ([]domain.OrderItem, error) {
	order, err := s.Details(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Items == nil {
		return []domain.OrderItem{}, nil
	}
	return order.Items, nil
}

// fillItemNames names items lacking a snapshot from the current catalog
func (s *OrderService) fillItemNames(ctx context.Context, items []domain.OrderItem) error {
	var missing []uint
	for _, it := range items {
		if it.Name == "" {
			missing = append(missing, it.ProductID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	var products []domain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&products).Error; err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range items {
		if items[i].Name != "" {
			continue
		}
		if n, ok := names[items[i].ProductID]; ok {
			items[i].Name = n
		} else {
			items[i].Name = UnknownProductName
		}
	}
	return nil
}
