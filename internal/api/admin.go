package api

import (
	"net/http" // HTTP status codes

	"food_app/internal/service" // Wallet workflow

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListTopupsHandler returns top-up requests filtered by ?filter=all|pending|completed|rejected
func ListTopupsHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		topups, err := wallets.ListTopups(c.Request.Context(), c.DefaultQuery("filter", "all"))
		if err != nil {
			writeError(c, err) // Unknown filter answers 400
			return
		}
		respond(c, http.StatusOK, gin.H{"topups": topups})
	}
}

// ApproveTopupHandler completes a pending top-up and credits the wallet
func ApproveTopupHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		topup, err := wallets.ApproveTopup(c.Request.Context(), id)
		if err != nil {
			writeError(c, err) // Already processed answers 400
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Top-up approved", "topup": topup})
	}
}

// RejectTopupHandler rejects a pending top-up without touching the balance
func RejectTopupHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		topup, err := wallets.RejectTopup(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Top-up rejected", "topup": topup})
	}
}
