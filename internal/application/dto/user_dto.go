package dto

import "time"

// RegisterRequest entrada para registro (password en texto, se hashea en el use case).
type RegisterRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email            string `json:"email" validate:"omitempty,email"`
	Password         string `json:"password" validate:"required,min=8"`
	IsManager        bool   `json:"is_manager"`
	IsWarehouseStaff bool   `json:"is_warehouse_staff"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	IsManager        bool      `json:"is_manager"`
	IsWarehouseStaff bool      `json:"is_warehouse_staff"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
