package api

import (
	"net/http" // HTTP status codes

	"food_app/internal/service" // Account store

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the self-service sign-up body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Login email must be valid
	Password string `json:"password" binding:"required,min=6"` // Password of at least 6 characters
}

// LoginRequest is the credential check body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a regular user account
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			writeError(c, err) // Duplicate email answers 409
			return
		}
		respond(c, http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns the profile with a JWT token
func LoginHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, token, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err) // Unknown email and wrong password both answer 401
			return
		}
		payload := gin.H{"message": "Login successful", "user": user}
		if token != "" {
			payload["token"] = token // Only when a signing secret is configured
		}
		respond(c, http.StatusOK, payload)
	}
}
