package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string           `json:"sku" validate:"required,min=1,max=100"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	CategoryID      *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitOfMeasureID *string          `json:"uom_id" validate:"omitempty,uuid"`
	MinStock        decimal.Decimal  `json:"min_stock"`
	Cost            *decimal.Decimal `json:"cost"`
}

// UpdateProductRequest entrada para actualizar un producto. SKU y Cost no se modifican por aquí.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID      *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitOfMeasureID *string          `json:"uom_id" validate:"omitempty,uuid"`
	MinStock        *decimal.Decimal `json:"min_stock"`
	Active          *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	CategoryID      *string         `json:"category_id,omitempty"`
	UnitOfMeasureID *string         `json:"uom_id,omitempty"`
	MinStock        decimal.Decimal `json:"min_stock"`
	Cost            decimal.Decimal `json:"cost"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
