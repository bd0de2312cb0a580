package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// User represents the user entity
type User struct {
	gorm.Model
	Username    string `gorm:"uniqueIndex;size:64;not null" json:"username"` // Stored lower-case
	DisplayName string `gorm:"size:128" json:"displayName"`
	Password    string `json:"-"` // Password is hashed and not returned in responses
}

/** -------------------- DTOs -------------------- */
// Request
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32,alphanum"`
	DisplayName string `json:"displayName" binding:"omitempty,max=128"`
	Password    string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Update user request
type UpdateUserRequest struct {
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=128"`
}

// Response
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LoginResponse represents the response for a successful login
// swagger:model
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse strips credentials from a user.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
