package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"food_app/internal/domain"
	"food_app/internal/metrics"
	"food_app/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination limits for ledger history
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// WalletService owns balances, the ledger and the top-up workflow
type WalletService struct {
	db    *gorm.DB
	cache utils.Cache
	ttl   time.Duration
}

// NewWalletService builds a WalletService; a nil cache disables caching
func NewWalletService(db *gorm.DB, cache utils.Cache, ttl time.Duration) *WalletService {
	if cache == nil {
		cache = utils.NopCache{}
	}
	return &WalletService{db: db, cache: cache, ttl: ttl}
}

// LedgerPage is one page of a user's ledger history
type LedgerPage struct {
	Transactions []domain.WalletTransaction `json:"transactions"`
	Page         int                        `json:"page"`
	PageSize     int                        `json:"page_size"`
	Total        int64                      `json:"total"`
	TotalPages   int                        `json:"total_pages"`
}

// CreateTopupInput is a user's request to add funds
type CreateTopupInput struct {
	UserID        uint
	Amount        decimal.Decimal
	PaymentMethod string
}

func walletKey(userID uint) string {
	return "wallet:user:" + strconv.FormatUint(uint64(userID), 10)
}

// walletVersionKey counts invalidations of a user's balance and ledger pages
func walletVersionKey(userID uint) string {
	return "wallet:version:user:" + strconv.FormatUint(uint64(userID), 10)
}

func ledgerPrefix(userID uint) string {
	return "txhistory:user:" + strconv.FormatUint(uint64(userID), 10) + ":"
}

// Invalidate drops the cached balance and every cached ledger page of a user.
// The version bump comes first so a reader that loaded the old rows cannot store them afterwards.
func (s *WalletService) Invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Bump(ctx, walletVersionKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to bump wallet cache version")
	}
	if err := s.cache.Delete(ctx, walletKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to invalidate wallet cache")
	}
	if err := s.cache.DeletePrefix(ctx, ledgerPrefix(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to invalidate ledger cache")
	}
}

// Balance returns the user's wallet, creating an empty one on first access
func (s *WalletService) Balance(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if found, err := s.cache.Get(ctx, walletKey(userID), &wallet); err == nil && found {
		return &wallet, nil
	}
	version, versionErr := s.cache.Version(ctx, walletVersionKey(userID))
	if err := userExists(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	if err := ensureWallet(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	if versionErr == nil {
		s.storeIfCurrent(ctx, userID, version, walletKey(userID), wallet)
	}
	return &wallet, nil
}

// Transactions returns a page of the user's ledger, newest first
func (s *WalletService) Transactions(ctx context.Context, userID uint, page, pageSize int) (*LedgerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	cacheKey := ledgerPrefix(userID) + "page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
	var cached LedgerPage
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}
	version, versionErr := s.cache.Version(ctx, walletVersionKey(userID))

	q := s.db.WithContext(ctx).Model(&domain.WalletTransaction{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	txs := make([]domain.WalletTransaction, 0, pageSize)
	if err := q.Order("created_at desc").Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	result := &LedgerPage{
		Transactions: txs,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   (int(total) + pageSize - 1) / pageSize,
	}
	if versionErr == nil {
		s.storeIfCurrent(ctx, userID, version, cacheKey, result)
	}
	return result, nil
}

// storeIfCurrent caches value unless the user's wallet was invalidated after version was read
func (s *WalletService) storeIfCurrent(ctx context.Context, userID uint, version int64, key string, value any) {
	stored, err := s.cache.SetIfVersion(ctx, walletVersionKey(userID), version, key, value, s.ttl)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "key": key, "error": err.Error()}).Warn("Failed to cache wallet data")
		return
	}
	if !stored {
		logrus.WithFields(logrus.Fields{"user_id": userID, "key": key}).Debug("Skipped caching invalidated wallet data")
	}
}

// CreateTopup records a pending top-up and its pending ledger entry. The balance is untouched.
func (s *WalletService) CreateTopup(ctx context.Context, in CreateTopupInput) (*domain.WalletTopup, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	if in.UserID == 0 || !in.Amount.IsPositive() || method == "" {
		return nil, fmt.Errorf("%w: user_id, a positive amount and payment_method are required", ErrValidation)
	}
	if !domain.IsMoney(in.Amount) {
		return nil, fmt.Errorf("%w: amount has more than %d decimal places", ErrValidation, domain.MoneyScale)
	}
	if err := userExists(s.db.WithContext(ctx), in.UserID); err != nil {
		return nil, err
	}
	topup := &domain.WalletTopup{
		UserID:        in.UserID,
		Amount:        in.Amount,
		PaymentMethod: method,
		Status:        domain.TopupPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topup).Error; err != nil {
			return fmt.Errorf("create top-up: %w", err)
		}
		return appendLedger(tx, &domain.WalletTransaction{
			UserID:      in.UserID,
			Amount:      in.Amount,
			Direction:   domain.DirectionCredit,
			Type:        domain.TxTypeTopUp,
			Status:      domain.TxStatusPending,
			Description: "Top-up via " + method,
			ReferenceID: &topup.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, in.UserID)
	logrus.WithFields(logrus.Fields{
		"user_id":  in.UserID,
		"topup_id": topup.ID,
		"amount":   in.Amount.String(),
		"method":   method,
	}).Info("Top-up requested")
	return topup, nil
}

// ApproveTopup completes a pending top-up and credits the wallet
func (s *WalletService) ApproveTopup(ctx context.Context, id uint) (*domain.WalletTopup, error) {
	return s.resolveTopup(ctx, id, true)
}

// RejectTopup rejects a pending top-up; the balance is untouched
func (s *WalletService) RejectTopup(ctx context.Context, id uint) (*domain.WalletTopup, error) {
	return s.resolveTopup(ctx, id, false)
}

func (s *WalletService) resolveTopup(ctx context.Context, id uint, approve bool) (*domain.WalletTopup, error) {
	status, txStatus := domain.TopupRejected, domain.TxStatusRejected
	if approve {
		status, txStatus = domain.TopupCompleted, domain.TxStatusCompleted
	}
	var topup domain.WalletTopup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the request so two admins cannot both resolve it
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&topup, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTopupNotFound
			}
			return fmt.Errorf("load top-up: %w", err)
		}
		if topup.Status != domain.TopupPending {
			return ErrTopupProcessed
		}
		now := time.Now()
		if err := tx.Model(&domain.WalletTopup{}).Where("id = ?", topup.ID).
			Updates(map[string]any{"status": status, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("update top-up: %w", err)
		}
		res := tx.Model(&domain.WalletTransaction{}).
			Where("reference_id = ? AND type = ?", topup.ID, domain.TxTypeTopUp).
			Updates(map[string]any{"status": txStatus, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("update ledger entry: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Requests created before the ledger row existed still get one
			if err := appendLedger(tx, &domain.WalletTransaction{
				UserID:      topup.UserID,
				Amount:      topup.Amount,
				Direction:   domain.DirectionCredit,
				Type:        domain.TxTypeTopUp,
				Status:      txStatus,
				Description: "Top-up via " + topup.PaymentMethod,
				ReferenceID: &topup.ID,
			}); err != nil {
				return err
			}
		}
		if approve {
			return creditWallet(tx, topup.UserID, topup.Amount)
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"topup_id": id, "approve": approve, "error": err.Error()}).Warn("Top-up resolution failed")
		return nil, err
	}
	topup.Status = status
	s.Invalidate(ctx, topup.UserID)
	metrics.TopupsResolved.WithLabelValues(status).Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":  topup.UserID,
		"topup_id": topup.ID,
		"amount":   topup.Amount.String(),
		"status":   status,
	}).Info("Top-up resolved")
	return &topup, nil
}

// ListTopups returns top-up requests for the admin screen; filter is all or a status
func (s *WalletService) ListTopups(ctx context.Context, filter string) ([]domain.WalletTopup, error) {
	if filter == "" {
		filter = "all"
	}
	q := s.db.WithContext(ctx).Model(&domain.WalletTopup{}).
		Select("wallet_topups.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = wallet_topups.user_id")
	switch filter {
	case "all":
	case domain.TopupPending, domain.TopupCompleted, domain.TopupRejected:
		q = q.Where("wallet_topups.status = ?", filter)
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, filter)
	}
	topups := []domain.WalletTopup{}
	if err := q.Order("wallet_topups.created_at desc").Order("wallet_topups.id desc").Find(&topups).Error; err != nil {
		return nil, fmt.Errorf("list top-ups: %w", err)
	}
	return topups, nil
}

// userExists maps a missing user to ErrUserNotFound
func userExists(db *gorm.DB, userID uint) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ensureWallet inserts a zero wallet unless one exists; safe under concurrent callers
func ensureWallet(tx *gorm.DB, userID uint) error {
	w := domain.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&w).Error; err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

// debitWallet locks the wallet row, checks funds and subtracts amount
func debitWallet(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	var w domain.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.WalletRejections.WithLabelValues("wallet_missing").Inc()
			return ErrWalletMissing
		}
		return fmt.Errorf("lock wallet: %w", err)
	}
	if w.Balance.LessThan(amount) {
		metrics.WalletRejections.WithLabelValues("insufficient_balance").Inc()
		return ErrInsufficientBalance
	}
	// The balance guard keeps the debit safe even where row locks are unavailable
	res := tx.Model(&domain.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.WalletRejections.WithLabelValues("insufficient_balance").Inc()
		return ErrInsufficientBalance
	}
	return nil
}

// creditWallet adds amount to the wallet, creating it first if needed
func creditWallet(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	if err := ensureWallet(tx, userID); err != nil {
		return err
	}
	res := tx.Model(&domain.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("credit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWalletMissing
	}
	return nil
}

func appendLedger(tx *gorm.DB, entry *domain.WalletTransaction) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}
