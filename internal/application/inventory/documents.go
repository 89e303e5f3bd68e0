package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SlipLine renglón impreso en la hoja de operación.
type SlipLine struct {
	SKU         string
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
}

// OperationSlip datos ya resueltos (nombres, ubicaciones) para imprimir una operación.
type OperationSlip struct {
	Operation   *entity.Operation
	Lines       []SlipLine
	PartnerName string
	Source      string
	Destination string
	GeneratedAt time.Time
}

// SlipGenerator genera el PDF de una operación.
type SlipGenerator interface {
	GenerateOperationSlip(ctx context.Context, slip OperationSlip) ([]byte, error)
}

// LedgerExport registros del libro a exportar junto con el filtro que los produjo.
type LedgerExport struct {
	Entries     []*entity.StockLedgerEntry
	Filter      repository.LedgerFilter
	GeneratedAt time.Time
}

// LedgerExporter serializa un extracto del libro (XML de auditoría).
type LedgerExporter interface {
	ExportLedger(ctx context.Context, export LedgerExport) ([]byte, error)
}

// DocumentUseCase documentos derivados de operaciones y del libro: hoja PDF y exportación XML.
type DocumentUseCase struct {
	opRepo       repository.OperationRepository
	partnerRepo  repository.PartnerRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	ledgerRepo   repository.LedgerRepository
	slips        SlipGenerator
	exporter     LedgerExporter
	now          func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	opRepo repository.OperationRepository,
	partnerRepo repository.PartnerRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	slips SlipGenerator,
	exporter LedgerExporter,
) *DocumentUseCase {
	return &DocumentUseCase{
		opRepo:       opRepo,
		partnerRepo:  partnerRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		ledgerRepo:   ledgerRepo,
		slips:        slips,
		exporter:     exporter,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// OperationSlipPDF genera la hoja de la operación y el nombre de archivo sugerido (WH1-IN-2026-0001.pdf).
func (uc *DocumentUseCase) OperationSlipPDF(ctx context.Context, id string) ([]byte, string, error) {
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	lines, err := uc.opRepo.ListLines(ctx, op.ID)
	if err != nil {
		return nil, "", err
	}

	slip := OperationSlip{Operation: op, GeneratedAt: uc.now(), Lines: make([]SlipLine, 0, len(lines))}
	if op.PartnerID != nil {
		if slip.PartnerName, err = uc.partnerName(ctx, *op.PartnerID); err != nil {
			return nil, "", err
		}
	}
	if slip.Source, err = uc.locationName(ctx, op.SourceLocationID); err != nil {
		return nil, "", err
	}
	if slip.Destination, err = uc.locationName(ctx, op.DestinationLocationID); err != nil {
		return nil, "", err
	}
	for _, l := range lines {
		line := SlipLine{SKU: l.ProductSKU, Quantity: l.Quantity, UnitCost: l.UnitCost}
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		switch {
		case err == nil:
			line.SKU, line.ProductName = p.SKU, p.Name
		case !errors.Is(err, domain.ErrNotFound):
			return nil, "", err
		}
		slip.Lines = append(slip.Lines, line)
	}

	doc, err := uc.slips.GenerateOperationSlip(ctx, slip)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de operación %s: %w", op.Reference, err)
	}
	return doc, strings.ReplaceAll(op.Reference, "/", "-") + ".pdf", nil
}

// ExportLedgerXML exporta los registros del libro que cumplen el filtro. Sin limit exporta todo.
func (uc *DocumentUseCase) ExportLedgerXML(ctx context.Context, in dto.LedgerFilterRequest) ([]byte, error) {
	filter, err := LedgerFilterFrom(in)
	if err != nil {
		return nil, err
	}
	entries, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportLedger(ctx, LedgerExport{Entries: entries, Filter: filter, GeneratedAt: uc.now()})
}

func (uc *DocumentUseCase) partnerName(ctx context.Context, id string) (string, error) {
	p, err := uc.partnerRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (uc *DocumentUseCase) locationName(ctx context.Context, id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	l, err := uc.locationRepo.GetByID(ctx, *id)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return l.FullName(), nil
}
