package entity

// Category agrupa productos (materia prima, producto terminado, etc.).
type Category struct {
	ID          string
	Name        string
	Description string
}

// UnitOfMeasure unidad de medida: pieza, kg, caja...
type UnitOfMeasure struct {
	ID           string
	Name         string
	Abbreviation string
}
