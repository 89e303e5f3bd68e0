package entity

import "time"

// User usuario del sistema. Los flags se guardan pero no controlan permisos.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string // bcrypt, nunca texto plano
	IsManager        bool
	IsWarehouseStaff bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
