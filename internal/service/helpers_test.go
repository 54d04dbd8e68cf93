package service

import (
	"context"
	"testing"

	"food_app/internal/db"
	"food_app/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// services bundles every service over one in-memory database
type services struct {
	db            *gorm.DB
	users         *UserService
	products      *ProductService
	wallets       *WalletService
	notifications *NotificationService
	orders        *OrderService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection keeps a single in-memory database and serializes transactions
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newServices(t *testing.T) *services {
	t.Helper()
	return newServicesOn(t, newTestDB(t))
}

func newServicesOn(t *testing.T, gdb *gorm.DB) *services {
	t.Helper()
	s := &services{
		db:            gdb,
		users:         NewUserService(gdb, "test-secret"),
		products:      NewProductService(gdb),
		wallets:       NewWalletService(gdb, nil, 0),
		notifications: NewNotificationService(gdb),
	}
	s.orders = NewOrderService(gdb, s.products, s.notifications, s.wallets)
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustUser(t *testing.T, s *services, name, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{Name: name, Email: name + "@food.app", Password: string(hash), Role: role}
	require.NoError(t, s.db.Create(&u).Error)
	return &u
}

func mustProduct(t *testing.T, s *services, name, price string) *domain.Product {
	t.Helper()
	p, err := s.products.Create(context.Background(), ProductInput{Name: name, Price: dec(price), Category: "Main"})
	require.NoError(t, err)
	return p
}

// fund credits the wallet through the top-up workflow so the ledger stays consistent
func fund(t *testing.T, s *services, userID uint, amount string) {
	t.Helper()
	ctx := context.Background()
	topup, err := s.wallets.CreateTopup(ctx, CreateTopupInput{UserID: userID, Amount: dec(amount), PaymentMethod: "bank"})
	require.NoError(t, err)
	_, err = s.wallets.ApproveTopup(ctx, topup.ID)
	require.NoError(t, err)
}

func balanceOf(t *testing.T, s *services, userID uint) decimal.Decimal {
	t.Helper()
	var w domain.Wallet
	require.NoError(t, s.db.Where("user_id = ?", userID).First(&w).Error)
	return w.Balance
}

func ledgerOf(t *testing.T, s *services, userID uint) []domain.WalletTransaction {
	t.Helper()
	var txs []domain.WalletTransaction
	require.NoError(t, s.db.Where("user_id = ?", userID).Order("id").Find(&txs).Error)
	return txs
}

func orderInput(userID uint, method string, items ...OrderItemInput) CreateOrderInput {
	lines := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.OrderItem{Price: it.Price, Quantity: it.Quantity})
	}
	return CreateOrderInput{
		UserID:          userID,
		TotalAmount:     domain.ItemsTotal(lines),
		Items:           items,
		PaymentMethod:   method,
		ShippingAddress: "1 Main St",
		Phone:           "555-0100",
	}
}
