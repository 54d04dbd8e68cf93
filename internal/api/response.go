package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"food_app/internal/domain"     // Domain errors and roles
	"food_app/internal/middleware" // Context keys
	"food_app/internal/service"    // Service errors

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Logging library
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true // Money renders as JSON numbers
}

// respond writes a success payload; every response carries a status field
func respond(c *gin.Context, code int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["status"] = "success"
	c.JSON(code, payload)
}

// fail writes an error payload
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// writeError maps service and domain errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, service.ErrWalletMissing),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrTopupProcessed),
		errors.Is(err, service.ErrLastAdmin):
		code = http.StatusBadRequest
	case service.IsNotFound(err):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	}
	if code == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestID),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"error":      err.Error(),
		}).Error("Request failed")
		fail(c, code, "Internal server error")
		return
	}
	fail(c, code, err.Error())
}

// pathID parses a positive numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// caller returns the authenticated user and whether they are an admin.
// authenticated is false when the route runs without JWT auth.
func caller(c *gin.Context) (id uint, admin, authenticated bool) {
	v, authenticated := c.Get(middleware.CtxUserID)
	if !authenticated {
		return 0, false, false
	}
	id, _ = v.(uint)
	return id, c.GetString(middleware.CtxRole) == domain.RoleAdmin, true
}

// selfOrAdmin allows access to a user's data only to that user or an admin.
// Without authentication every caller is allowed.
func selfOrAdmin(c *gin.Context, userID uint) bool {
	id, admin, authenticated := caller(c)
	if !authenticated || admin || id == userID {
		return true
	}
	fail(c, http.StatusForbidden, "Access to another user's data is not allowed")
	return false
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}
