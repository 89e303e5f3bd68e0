package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega. Code se usa en las referencias (ej. WH1).
type CreateWarehouseRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=10,alphanum"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega. El código no cambia.
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateLocationRequest entrada para crear una ubicación dentro de una bodega.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID            string `json:"id"`
	WarehouseID   string `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
}
