package xmlexport_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlexport"
)

func sampleExport() inventory.LedgerExport {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	src, dst := "loc-a", "loc-b"
	return inventory.LedgerExport{
		GeneratedAt: at,
		Filter:      repository.LedgerFilter{ProductID: "prod-1"},
		Entries: []*entity.StockLedgerEntry{
			{
				ID: "e-2", OperationID: "op-2", LineID: "l-2", ProductID: "prod-1", LocationID: "loc-a",
				SourceLocationID: &src, DestinationLocationID: &dst,
				QuantityChange: decimal.NewFromInt(-4), QuantityAfter: decimal.NewFromInt(6), CreatedAt: at,
			},
			{
				ID: "e-1", OperationID: "op-1", LineID: "l-1", ProductID: "prod-1", LocationID: "loc-a",
				DestinationLocationID: &src,
				QuantityChange:        decimal.NewFromInt(10), QuantityAfter: decimal.NewFromInt(10), CreatedAt: at.Add(-time.Hour),
			},
		},
	}
}

func TestExportLedger_Estructura(t *testing.T) {
	out, err := xmlexport.NewExporter("").ExportLedger(context.Background(), sampleExport())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "StockLedger", root.Tag)
	assert.Equal(t, xmlexport.RootElementID, root.SelectAttrValue("Id", ""))
	assert.Equal(t, "prod-1", root.SelectElement("Filter").SelectAttrValue("productId", ""))

	entries := root.SelectElement("Entries")
	assert.Equal(t, "2", entries.SelectAttrValue("count", ""))
	first := entries.SelectElements("Entry")[0]
	assert.Equal(t, "-4", first.SelectElement("QuantityChange").Text())
	assert.Equal(t, "loc-b", first.SelectAttrValue("destinationLocationId", ""))

	sig := root.SelectElement("ds:Signature")
	require.NotNil(t, sig)
	assert.Nil(t, sig.SelectElement("ds:SignatureValue"), "sin clave no hay SignatureValue")
}

func TestVerify_DigestValido(t *testing.T) {
	out, err := xmlexport.NewExporter("").ExportLedger(context.Background(), sampleExport())
	require.NoError(t, err)
	assert.NoError(t, xmlexport.Verify(out, ""))
}

func TestVerify_FirmaHMAC(t *testing.T) {
	out, err := xmlexport.NewExporter("clave-auditoria").ExportLedger(context.Background(), sampleExport())
	require.NoError(t, err)

	assert.NoError(t, xmlexport.Verify(out, "clave-auditoria"))
	assert.ErrorIs(t, xmlexport.Verify(out, "otra-clave"), xmlexport.ErrTampered)
}

func TestVerify_DetectaAlteracion(t *testing.T) {
	out, err := xmlexport.NewExporter("clave-auditoria").ExportLedger(context.Background(), sampleExport())
	require.NoError(t, err)

	tampered := bytes.Replace(out, []byte("<QuantityAfter>6</QuantityAfter>"), []byte("<QuantityAfter>60</QuantityAfter>"), 1)
	require.NotEqual(t, out, tampered)
	assert.ErrorIs(t, xmlexport.Verify(tampered, ""), xmlexport.ErrTampered)
}

func TestExportLedger_Vacio(t *testing.T) {
	out, err := xmlexport.NewExporter("k").ExportLedger(context.Background(), inventory.LedgerExport{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `count="0"`)
	assert.NoError(t, xmlexport.Verify(out, "k"))
}
