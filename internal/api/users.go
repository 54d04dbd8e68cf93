package api

import (
	"net/http"

	"food_app/internal/domain"
	"food_app/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest is the admin user creation body
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"` // Defaults to user
}

// UpdateUserRequest is the body of admin and profile edits; empty optional fields stay unchanged
type UpdateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password"`
	Role         string `json:"role"` // Ignored on profile edits
	ProfileImage string `json:"profile_image"`
}

// ChangePasswordRequest carries the current and the new password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (r UpdateUserRequest) input() service.UpdateUserInput {
	return service.UpdateUserInput{
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		Role:         r.Role,
		ProfileImage: r.ProfileImage,
	}
}

// ListUsersHandler returns every user
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"users": list})
	}
}

// CreateUserHandler lets an admin create an account with any role
func CreateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		role := req.Role
		if role == "" {
			role = domain.RoleUser
		}
		user, err := users.AdminCreate(c.Request.Context(), req.Name, req.Email, req.Password, role)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
	}
}

// GetUserHandler returns one user
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"user": user})
	}
}

// UpdateUserHandler applies an admin edit, role included
func UpdateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req UpdateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Update(c.Request.Context(), id, req.input())
		if err != nil {
			writeError(c, err) // Demoting the last admin answers 400
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
	}
}

// UpdateProfileHandler applies a self-service edit
func UpdateProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		var req UpdateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.UpdateProfile(c.Request.Context(), id, req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// ChangePasswordHandler replaces a password after checking the current one
func ChangePasswordHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		var req ChangePasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := users.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

// DeleteUserHandler removes a user; the last admin is kept
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// UserOrdersHandler returns the orders of one user
func UserOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		list, err := orders.ListByUser(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"orders": list})
	}
}
