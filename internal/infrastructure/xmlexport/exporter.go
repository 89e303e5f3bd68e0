// Package xmlexport genera el extracto XML del libro de movimientos con un digest
// SHA-256 sobre su forma canónica (C14N) y, si hay clave, una firma HMAC del SignedInfo.
// El resultado permite a un auditor detectar cualquier alteración del archivo.
package xmlexport

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.LedgerExporter = (*Exporter)(nil)

// Exporter implementa inventory.LedgerExporter.
type Exporter struct {
	key []byte
}

// NewExporter construye el exportador. key vacía omite SignatureValue.
func NewExporter(key string) *Exporter {
	var k []byte
	if key != "" {
		k = []byte(key)
	}
	return &Exporter{key: k}
}

// ExportLedger construye el documento, calcula el digest y lo firma.
func (e *Exporter) ExportLedger(_ context.Context, export inventory.LedgerExport) ([]byte, error) {
	doc := buildDocument(export)
	unsigned, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	sig, err := e.signature(digestOf(unsigned))
	if err != nil {
		return nil, err
	}
	doc.Root().AddChild(sig)

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	return out.Bytes(), nil
}

// ── Documento ─────────────────────────────────────────────────────────────────

func buildDocument(export inventory.LedgerExport) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("StockLedger")
	root.CreateAttr("xmlns", NamespaceLedger)
	root.CreateAttr("Id", RootElementID)
	root.CreateAttr("generatedAt", export.GeneratedAt.UTC().Format(timeLayout))

	f := export.Filter
	filter := root.CreateElement("Filter")
	setIf(filter, "productId", f.ProductID)
	setIf(filter, "locationId", f.LocationID)
	setIf(filter, "operationId", f.OperationID)
	if f.From != nil {
		filter.CreateAttr("from", f.From.UTC().Format(timeLayout))
	}
	if f.To != nil {
		filter.CreateAttr("to", f.To.UTC().Format(timeLayout))
	}

	entries := root.CreateElement("Entries")
	entries.CreateAttr("count", strconv.Itoa(len(export.Entries)))
	for _, e := range export.Entries {
		addEntry(entries, e)
	}
	return doc
}

func addEntry(parent *etree.Element, e *entity.StockLedgerEntry) {
	el := parent.CreateElement("Entry")
	el.CreateAttr("id", e.ID)
	el.CreateAttr("operationId", e.OperationID)
	el.CreateAttr("lineId", e.LineID)
	el.CreateAttr("productId", e.ProductID)
	el.CreateAttr("locationId", e.LocationID)
	if e.SourceLocationID != nil {
		el.CreateAttr("sourceLocationId", *e.SourceLocationID)
	}
	if e.DestinationLocationID != nil {
		el.CreateAttr("destinationLocationId", *e.DestinationLocationID)
	}
	el.CreateAttr("createdAt", e.CreatedAt.UTC().Format(timeLayout))
	el.CreateElement("QuantityChange").SetText(e.QuantityChange.String())
	el.CreateElement("QuantityAfter").SetText(e.QuantityAfter.String())
}

func setIf(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

// ── Digest y firma ────────────────────────────────────────────────────────────

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// canonicalOrRaw cae a los bytes tal cual si C14N no puede procesar el documento.
func canonicalOrRaw(data []byte) []byte {
	canonical, err := canonicalizeXML(data)
	if err != nil {
		return data
	}
	return canonical
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(canonicalOrRaw(data))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (e *Exporter) signature(digestB64 string) (*etree.Element, error) {
	signedInfo := buildSignedInfo(digestB64, e.key != nil)
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(signedInfo)
	if e.key != nil {
		value := e.signatureValue(signedInfo)
		sb.WriteString(`<ds:SignatureValue>` + value + `</ds:SignatureValue>`)
	}
	sb.WriteString(`</ds:Signature>`)

	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(sb.String()); err != nil {
		return nil, fmt.Errorf("xmlexport: parsear Signature: %w", err)
	}
	return sigDoc.Root(), nil
}

func (e *Exporter) signatureValue(signedInfo string) string {
	mac := hmac.New(sha256.New, e.key)
	mac.Write(canonicalOrRaw([]byte(signedInfo)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func buildSignedInfo(digestB64 string, signed bool) string {
	method := AlgSHA256
	if signed {
		method = AlgHMACSHA256
	}
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + method + `"/>`)
	sb.WriteString(`<ds:Reference URI="#` + RootElementID + `">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/>`)
	sb.WriteString(`<ds:Transform Algorithm="` + AlgC14N + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + digestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}
