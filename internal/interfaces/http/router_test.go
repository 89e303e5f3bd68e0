package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "stock-ledger-test"
	testExportKey = "clave-export"
)

type testServer struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	log := logger.Nop()

	operationUC := inventory.NewOperationUseCase(store, store.Operations(), nil, log)
	docs := inventory.NewDocumentUseCase(
		store.Operations(), store.Partners(), store.Locations(), store.Products(), store.Ledger(),
		pdf.NewSlipGenerator("test"), xmlexport.NewExporter(testExportKey),
	)
	app := apphttp.NewApp("stock-ledger-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer,
		}),
		ProductUC:     usecase.NewProductUseCase(store.Products(), store.Categories(), store.UnitsOfMeasure()),
		CatalogUC:     usecase.NewCatalogUseCase(store.Categories(), store.UnitsOfMeasure(), store.Partners()),
		WarehouseUC:   usecase.NewWarehouseUseCase(store.Warehouses(), store.Locations()),
		OperationUC:   operationUC,
		StockUC:       inventory.NewStockQueryUseCase(store.Stock(), store.Ledger(), nil),
		DocumentUC:    docs,
		Replenishment: inventory.NewReplenishmentUseCase(store.Reports()),
		DashboardUC:   appanalytics.NewDashboardUseCase(store.Reports(), store.Operations()),
		JWTSecret:     testJWTSecret,
		ServiceName:   "stock-ledger-test",
	})

	tok, err := pkgjwt.Generate(testJWTSecret, uuid.NewString(), "bodega", testIssuer, 60)
	require.NoError(t, err)
	return &testServer{t: t, app: app, token: tok}
}

// do lanza la petición y devuelve status y cuerpo crudo.
func (s *testServer) do(method, path string, body any) (int, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, raw
}

// doJSON como do pero decodifica el cuerpo en un mapa.
func (s *testServer) doJSON(method, path string, body any) (int, map[string]any) {
	s.t.Helper()
	status, raw := s.do(method, path, body)
	var out map[string]any
	require.NoError(s.t, json.Unmarshal(raw, &out), "cuerpo: %s", raw)
	return status, out
}

func (s *testServer) mustCreate(path string, body any) string {
	s.t.Helper()
	status, out := s.doJSON(http.MethodPost, path, body)
	require.Equal(s.t, http.StatusCreated, status, "POST %s: %v", path, out)
	return out["id"].(string)
}

// catalog crea bodega WH1 con ubicaciones Stock y Shelf, un proveedor, un cliente y SKU-1.
type catalog struct {
	stock, shelf, supplier, customer, product string
}

func (s *testServer) seedCatalog() catalog {
	s.t.Helper()
	wh := s.mustCreate("/api/warehouses", map[string]any{"code": "WH1", "name": "Principal"})
	return catalog{
		stock:    s.mustCreate("/api/warehouses/"+wh+"/locations", map[string]any{"name": "Stock"}),
		shelf:    s.mustCreate("/api/warehouses/"+wh+"/locations", map[string]any{"name": "Shelf"}),
		supplier: s.mustCreate("/api/partners", map[string]any{"name": "Acme", "type": "supplier"}),
		customer: s.mustCreate("/api/partners", map[string]any{"name": "Tienda", "type": "customer"}),
		product:  s.mustCreate("/api/products", map[string]any{"sku": "SKU-1", "name": "Tornillo", "min_stock": "5"}),
	}
}

func (s *testServer) receipt(c catalog, quantity string) map[string]any {
	s.t.Helper()
	status, out := s.doJSON(http.MethodPost, "/api/operations", map[string]any{
		"type":                    "RECEIPT",
		"partner_id":              c.supplier,
		"destination_location_id": c.stock,
		"lines":                   []map[string]any{{"product_id": c.product, "quantity": quantity, "unit_cost": "2"}},
	})
	require.Equal(s.t, http.StatusCreated, status, "%v", out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Público y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	status, out := s.doJSON(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])
}

func TestRutaProtegida_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	status, out := s.doJSON(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out["code"])
}

func TestRutaProtegida_TokenInvalido_Retorna401(t *testing.T) {
	s := newTestServer(t)
	s.token = "token.invalido.aqui"
	status, _ := s.doJSON(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegistroYLogin(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	status, out := s.doJSON(http.MethodPost, "/api/auth/register", map[string]any{"username": "bodega1", "password": "secreto123"})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	assert.NotContains(t, out, "password_hash")

	status, _ = s.doJSON(http.MethodPost, "/api/auth/register", map[string]any{"username": "bodega1", "password": "secreto123"})
	assert.Equal(t, http.StatusConflict, status, "username duplicado")

	status, out = s.doJSON(http.MethodPost, "/api/auth/login", map[string]any{"username": "bodega1", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out["code"])

	status, out = s.doJSON(http.MethodPost, "/api/auth/login", map[string]any{"username": "bodega1", "password": "secreto123"})
	require.Equal(t, http.StatusOK, status)
	s.token = out["token"].(string)

	status, _ = s.doJSON(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, status, "el token del login abre las rutas protegidas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada y mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearProducto_SinSKU_Retorna400(t *testing.T) {
	s := newTestServer(t)
	status, out := s.doJSON(http.MethodPost, "/api/products", map[string]any{"name": "Sin SKU"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
}

func TestCrearProducto_SKUDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	s.mustCreate("/api/products", map[string]any{"sku": "SKU-1", "name": "Tornillo"})
	status, out := s.doJSON(http.MethodPost, "/api/products", map[string]any{"sku": "SKU-1", "name": "Otro"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", out["code"])
}

func TestProductoPorSKU(t *testing.T) {
	s := newTestServer(t)
	created := s.mustCreate("/api/products", map[string]any{"sku": "SKU-7", "name": "Arandela"})

	status, out := s.doJSON(http.MethodGet, "/api/products/sku/SKU-7", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, out["id"])

	status, _ = s.doJSON(http.MethodGet, "/api/products/sku/NO-EXISTE", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOperacionInexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	status, out := s.doJSON(http.MethodGet, "/api/operations/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out["code"])
}

func TestIDNoUUID_Retorna404(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/operations/abc",
		"/api/operations/abc/pdf",
		"/api/products/123",
		"/api/warehouses/WH1/locations",
		"/api/partners/x",
		"/api/stock/locations/no-es-uuid",
	} {
		status, out := s.doJSON(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "NOT_FOUND", out["code"], path)
	}

	status, _ := s.doJSON(http.MethodPost, "/api/operations/abc/validate", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLedger_FechaInvalida_Retorna400(t *testing.T) {
	s := newTestServer(t)
	status, out := s.doJSON(http.MethodGet, "/api/ledger?from=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de operaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_RecepcionValidadaSumaStock(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()

	op := s.receipt(c, "10")
	assert.Equal(t, fmt.Sprintf("WH1/IN/%d/0001", time.Now().UTC().Year()), op["reference"])
	assert.Equal(t, "DRAFT", op["status"])
	id := op["id"].(string)

	status, out := s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.Equal(t, "DONE", out["operation"].(map[string]any)["status"])
	assert.Len(t, out["changes"], 1)

	status, out = s.doJSON(http.MethodGet, "/api/stock?product_id="+c.product+"&location_id="+c.stock, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "10", out["quantity"])

	status, out = s.doJSON(http.MethodGet, "/api/ledger?product_id="+c.product, nil)
	require.Equal(t, http.StatusOK, status)
	items := out["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].(map[string]any)["operation_id"])

	// Validar de nuevo es un aviso, no un error.
	status, out = s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out["warning"])
}

func TestFlujo_EntregaSinStock_Retorna422(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	op := s.receipt(c, "10")
	status, _ := s.doJSON(http.MethodPost, "/api/operations/"+op["id"].(string)+"/validate", nil)
	require.Equal(t, http.StatusOK, status)

	id := s.mustCreate("/api/operations", map[string]any{
		"type":               "DELIVERY",
		"partner_id":         c.customer,
		"source_location_id": c.stock,
		"lines":              []map[string]any{{"product_id": c.product, "quantity": "15"}},
	})
	status, out := s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_REJECTED", out["code"])
	assert.Equal(t, "insufficient_stock", out["reason"])
	assert.Equal(t, "Insufficient stock for SKU-1. Available: 10, Required: 15", out["message"])
}

func TestFlujo_EditarOperacionValidada_Retorna409(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	id := s.receipt(c, "3")["id"].(string)
	status, _ := s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	require.Equal(t, http.StatusOK, status)

	status, out := s.doJSON(http.MethodPut, "/api/operations/"+id, map[string]any{"notes": "tarde"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", out["code"])

	status, _ = s.doJSON(http.MethodPost, "/api/operations/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, status, "DONE es terminal")
}

func TestFlujo_Transiciones(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	id := s.receipt(c, "1")["id"].(string)

	for path, want := range map[string]string{"/waiting": "WAITING", "/ready": "READY"} {
		status, out := s.doJSON(http.MethodPost, "/api/operations/"+id+path, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, want, out["status"])
	}
	status, out := s.doJSON(http.MethodPost, "/api/operations/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CANCEL", out["status"])

	status, out = s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "cancelled", out["reason"])
}

func TestListarOperaciones_FiltroInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.doJSON(http.MethodGet, "/api/operations?type=SALE", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestOperacionPDF(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	id := s.receipt(c, "4")["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/operations/"+id+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "WH1-IN-")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestExportarLibroXML(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	id := s.receipt(c, "7")["id"].(string)
	status, _ := s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := s.do(http.MethodGet, "/api/ledger/export.xml?product_id="+c.product, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `count="1"`)
	assert.NoError(t, xmlexport.Verify(raw, testExportKey))
}

func TestStockBajoYDashboard(t *testing.T) {
	s := newTestServer(t)
	c := s.seedCatalog()
	id := s.receipt(c, "2")["id"].(string) // queda por debajo de min_stock=5
	status, _ := s.doJSON(http.MethodPost, "/api/operations/"+id+"/validate", nil)
	require.Equal(t, http.StatusOK, status)

	status, out := s.doJSON(http.MethodGet, "/api/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["total"])

	status, out = s.doJSON(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["total_products"])
	assert.EqualValues(t, 1, out["low_stock_count"])
	assert.EqualValues(t, 0, out["pending_receipts"])
}
