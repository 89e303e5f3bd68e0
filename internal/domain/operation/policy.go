// Package operation contiene las reglas de dominio de las operaciones de inventario:
// tabla de políticas por tipo, generación de referencias, validador y máquina de estados.
// No depende de infraestructura.
package operation

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Side ubicación de la operación afectada por un movimiento.
type Side int

// Lados de un movimiento.
const (
	SideSource Side = iota
	SideDestination
)

// Effect efecto de un renglón sobre el stock de una ubicación.
// Sign multiplica la cantidad del renglón; FloorAtZero recorta el resultado a 0.
type Effect struct {
	Side        Side
	Sign        int64
	FloorAtZero bool
}

// Policy reglas de un tipo de operación.
type Policy struct {
	Code                string // código usado en la referencia
	NeedsSource         bool
	NeedsDestination    bool
	DistinctLocations   bool
	ChecksAvailability  bool // verifica stock en origen antes de descontar
	SignedQuantity      bool // los renglones llevan delta con signo
	AcceptsUnitCost     bool
	PartnerRole         string // tipo de tercero admitido; vacío = cualquiera
	Effects             []Effect
	ReferenceFromSource bool // la bodega de la referencia sale del origen
}

var policies = map[entity.OperationType]Policy{
	entity.OperationReceipt: {
		Code:             "IN",
		NeedsDestination: true,
		AcceptsUnitCost:  true,
		PartnerRole:      entity.PartnerSupplier,
		Effects:          []Effect{{Side: SideDestination, Sign: 1}},
	},
	entity.OperationDelivery: {
		Code:                "OUT",
		NeedsSource:         true,
		ChecksAvailability:  true,
		PartnerRole:         entity.PartnerCustomer,
		Effects:             []Effect{{Side: SideSource, Sign: -1}},
		ReferenceFromSource: true,
	},
	entity.OperationInternal: {
		Code:                "MOVE",
		NeedsSource:         true,
		NeedsDestination:    true,
		DistinctLocations:   true,
		ChecksAvailability:  true,
		Effects:             []Effect{{Side: SideSource, Sign: -1}, {Side: SideDestination, Sign: 1}},
		ReferenceFromSource: true,
	},
	entity.OperationAdjust: {
		Code:                "ADJ",
		NeedsSource:         true,
		SignedQuantity:      true,
		Effects:             []Effect{{Side: SideSource, Sign: 1, FloorAtZero: true}},
		ReferenceFromSource: true,
	},
}

// PolicyFor devuelve la política del tipo. ok es false para tipos fuera del conjunto.
func PolicyFor(t entity.OperationType) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

// MustPolicy igual que PolicyFor pero entra en pánico ante un tipo desconocido.
// Solo usar con operaciones ya validadas al crear.
func MustPolicy(t entity.OperationType) Policy {
	p, ok := policies[t]
	if !ok {
		panic(fmt.Sprintf("operation: tipo sin política: %q", t))
	}
	return p
}

// Movement cambio de stock concreto derivado de un renglón.
type Movement struct {
	Line                  *entity.OperationLine
	ProductID             string
	LocationID            string
	Delta                 decimal.Decimal
	FloorAtZero           bool
	SourceLocationID      *string
	DestinationLocationID *string
}

// Movements expande los renglones en movimientos según la tabla de efectos del tipo.
// Para traslados el descuento en origen va antes que el ingreso en destino.
func Movements(op *entity.Operation, lines []*entity.OperationLine) ([]Movement, error) {
	p, ok := PolicyFor(op.Type)
	if !ok {
		return nil, fmt.Errorf("operation: tipo desconocido %q", op.Type)
	}
	src, dst := op.SourceLocationID, op.DestinationLocationID
	// Ajuste: una sola ubicación que actúa como origen y destino.
	if op.Type == entity.OperationAdjust {
		loc := src
		if loc == nil {
			loc = dst
		}
		src, dst = loc, loc
	}
	out := make([]Movement, 0, len(lines)*len(p.Effects))
	for _, l := range lines {
		for _, eff := range p.Effects {
			loc := src
			if eff.Side == SideDestination {
				loc = dst
			}
			if loc == nil {
				return nil, fmt.Errorf("operation: ubicación faltante para %s", op.Type)
			}
			out = append(out, Movement{
				Line:                  l,
				ProductID:             l.ProductID,
				LocationID:            *loc,
				Delta:                 l.Quantity.Mul(decimal.NewFromInt(eff.Sign)),
				FloorAtZero:           eff.FloorAtZero,
				SourceLocationID:      src,
				DestinationLocationID: dst,
			})
		}
	}
	return out, nil
}
