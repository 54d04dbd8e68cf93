package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"food_app/internal/service" // Wallet workflow

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values
)

// TopupRequest represents a request to add funds, pending admin approval
type TopupRequest struct {
	UserID        uint            `json:"user_id" binding:"required"`        // Wallet owner
	Amount        decimal.Decimal `json:"amount"`                            // Must be positive
	PaymentMethod string          `json:"payment_method" binding:"required"` // How the funds were sent
}

// GetWalletHandler returns the user's wallet, creating an empty one on first access
func GetWalletHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok || !selfOrAdmin(c, userID) {
			return
		}
		wallet, err := wallets.Balance(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{
			"wallet":  wallet,         // Wallet row
			"balance": wallet.Balance, // Balance for clients reading it directly
		})
	}
}

// GetTransactionHistoryHandler returns a page of the user's ledger, newest first
func GetTransactionHistoryHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok || !selfOrAdmin(c, userID) {
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))                                            // Out of range values are clamped
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize))) // Capped at MaxPageSize
		history, err := wallets.Transactions(c.Request.Context(), userID, page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{
			"transactions": history.Transactions, // Ledger rows
			"page":         history.Page,         // Current page
			"page_size":    history.PageSize,     // Page size
			"total":        history.Total,        // Total number of rows
			"total_pages":  history.TotalPages,   // Total pages
		})
	}
}

// CreateTopupHandler records a pending top-up; the balance changes only on approval
func CreateTopupHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TopupRequest // Bind JSON request to struct
		if !bindJSON(c, &req) || !selfOrAdmin(c, req.UserID) {
			return
		}
		topup, err := wallets.CreateTopup(c.Request.Context(), service.CreateTopupInput{
			UserID:        req.UserID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, gin.H{"message": "Top-up request submitted", "topup": topup})
	}
}
