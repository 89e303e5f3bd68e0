package entity

import "time"

// Warehouse representa una bodega. Code se usa en las referencias de documentos (ej. WH1).
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location es una ubicación dentro de una bodega (rack, zona de recibo...).
// WarehouseCode es de solo lectura, se llena al consultar.
type Location struct {
	ID            string
	WarehouseID   string
	WarehouseCode string
	Name          string
}

// FullName devuelve "WH1/Rack A".
func (l *Location) FullName() string {
	if l.WarehouseCode == "" {
		return l.Name
	}
	return l.WarehouseCode + "/" + l.Name
}
