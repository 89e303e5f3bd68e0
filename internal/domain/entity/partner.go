package entity

// Tipos de tercero.
const (
	PartnerSupplier = "supplier"
	PartnerCustomer = "customer"
	PartnerBoth     = "both"
)

// Partner es un proveedor o cliente asociado a recepciones y entregas.
type Partner struct {
	ID      string
	Name    string
	Type    string // supplier, customer, both
	Phone   string
	Email   string
	Address string
}

// IsSupplier indica si el tercero puede figurar en una recepción.
func (p *Partner) IsSupplier() bool {
	return p.Type == PartnerSupplier || p.Type == PartnerBoth
}

// IsCustomer indica si el tercero puede figurar en una entrega.
func (p *Partner) IsCustomer() bool {
	return p.Type == PartnerCustomer || p.Type == PartnerBoth
}

// ValidPartnerType valida el tipo de tercero.
func ValidPartnerType(t string) bool {
	switch t {
	case PartnerSupplier, PartnerCustomer, PartnerBoth:
		return true
	}
	return false
}
