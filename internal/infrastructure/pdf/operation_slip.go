// Package pdf genera la hoja imprimible de una operación de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de operación    │  Referencia + Estado         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Tercero / Origen / Destino / Fecha programada               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cantidad | Costo unit.              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia + notas + firmas               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.SlipGenerator = (*SlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCancel  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var typeTitles = map[entity.OperationType]string{
	entity.OperationReceipt:  "RECEPCIÓN DE MERCANCÍA",
	entity.OperationDelivery: "ORDEN DE ENTREGA",
	entity.OperationInternal: "TRASLADO INTERNO",
	entity.OperationAdjust:   "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// SlipGenerator implementa inventory.SlipGenerator usando Maroto v2.
type SlipGenerator struct {
	author string
}

// NewSlipGenerator construye el generador. author se guarda en los metadatos del PDF.
func NewSlipGenerator(author string) *SlipGenerator {
	return &SlipGenerator{author: author}
}

// GenerateOperationSlip genera el PDF y devuelve sus bytes.
func (g *SlipGenerator) GenerateOperationSlip(_ context.Context, slip inventory.OperationSlip) ([]byte, error) {
	if slip.Operation == nil {
		return nil, fmt.Errorf("pdf: operación nil")
	}
	op := slip.Operation

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(op.Reference, true).
		WithAuthor(nonEmpty(g.author, "stock-ledger"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(op.Type))
	m.AddRows(tableLineRows(op.Type, slip.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(slip)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento (izq) y referencia + estado (der).
func headerRow(op *entity.Operation) core.Row {
	statusColor := colorGray
	if op.Status == entity.StatusCancel {
		statusColor = colorCancel
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(typeTitles[op.Type], string(op.Type)), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Creada: "+op.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(op.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+string(op.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 8, Color: statusColor,
			}),
			text.New("Programada: "+op.ScheduledDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// partiesRow: tercero y ubicaciones de origen/destino.
func partiesRow(slip inventory.OperationSlip) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(nonEmpty(s, "—"), props.Text{Size: 9, Top: top})
	}
	return row.New(16).Add(
		col.New(4).Add(label("TERCERO", 1), value(slip.PartnerName, 6)),
		col.New(4).Add(label("ORIGEN", 1), value(slip.Source, 6)),
		col.New(4).Add(label("DESTINO", 1), value(slip.Destination, 6)),
	)
}

// tableHeaderRow: la columna de costo solo aplica a recepciones.
func tableHeaderRow(t entity.OperationType) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	qtyLabel := "Cantidad"
	if t == entity.OperationAdjust {
		qtyLabel = "Ajuste (+/-)"
	}
	return row.New(8).Add(
		h("SKU", 3, align.Left),
		h("Producto", 5, align.Left),
		h(qtyLabel, 2, align.Right),
		h(costLabel(t), 2, align.Right),
	)
}

// tableLineRows: una fila por renglón.
func tableLineRows(t entity.OperationType, lines []inventory.SlipLine) []core.Row {
	if len(lines) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin renglones", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		qty := l.Quantity.String()
		if t == entity.OperationAdjust && l.Quantity.IsPositive() {
			qty = "+" + qty
		}
		cost := ""
		if t == entity.OperationReceipt && l.UnitCost != nil {
			cost = "$" + formatMoney(l.UnitCost.StringFixed(0))
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(cost, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRows: QR con la referencia, notas y espacio para firmas.
func footerRows(slip inventory.OperationSlip) []core.Row {
	op := slip.Operation
	validated := "Pendiente de validación"
	if op.ValidatedAt != nil {
		validated = "Validada: " + op.ValidatedAt.Format("02/01/2006 15:04")
	}
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(op.Reference, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 3}),
				text.New(nonEmpty(op.Notes, "—"), props.Text{Size: 8, Top: 7, Left: 3}),
				text.New(validated, props.Text{Size: 8, Top: 30, Left: 3, Color: colorGray}),
			),
		),
		row.New(20).Add(
			col.New(6).Add(text.New("______________________________\nEntrega", props.Text{Size: 8, Align: align.Center, Top: 10})),
			col.New(6).Add(text.New("______________________________\nRecibe", props.Text{Size: 8, Align: align.Center, Top: 10})),
		),
		row.New(6).Add(col.New(12).Add(
			text.New("Generado "+slip.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 6.5, Color: colorGray, Align: align.Right,
			}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func costLabel(t entity.OperationType) string {
	if t == entity.OperationReceipt {
		return "Costo unit."
	}
	return ""
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
