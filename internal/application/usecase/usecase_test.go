package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

// ─── Productos ───────────────────────────────────────────────────────────────

func newProductUC() (*usecase.ProductUseCase, *usecase.CatalogUseCase) {
	store := memory.New()
	return usecase.NewProductUseCase(store.Products(), store.Categories(), store.UnitsOfMeasure()),
		usecase.NewCatalogUseCase(store.Categories(), store.UnitsOfMeasure(), store.Partners())
}

func TestProduct_CreateYGet(t *testing.T) {
	ctx := context.Background()
	uc, catalog := newProductUC()
	cat, err := catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Ferretería"})
	require.NoError(t, err)

	created, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "SKU-1", Name: "Tornillo", CategoryID: &cat.ID, MinStock: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, created.Cost.IsZero(), "sin costo inicial arranca en 0")
	assert.True(t, created.Active)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", got.SKU)
	assert.Equal(t, cat.ID, *got.CategoryID)
}

func TestProduct_Create_Errores(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC()
	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-1", Name: "Tornillo"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-2", Name: "Neg", MinStock: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-3", Name: "Costo", Cost: ptr(decimal.NewFromInt(-2))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-4", Name: "Sin cat", CategoryID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_UpdateNoTocaSKUNiCosto(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC()
	created, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-1", Name: "Tornillo", Cost: ptr(decimal.NewFromInt(3))})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{
		Name: ptr("Tornillo largo"), MinStock: ptr(decimal.NewFromInt(8)), Active: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo largo", updated.Name)
	assert.Equal(t, "SKU-1", updated.SKU)
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(3)))
	assert.True(t, updated.MinStock.Equal(decimal.NewFromInt(8)))
	assert.False(t, updated.Active)

	_, err = uc.Update(ctx, uuid.NewString(), dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ListPaginado(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC()
	for _, sku := range []string{"A", "B", "C"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: sku, Name: sku})
		require.NoError(t, err)
	}
	page, err := uc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = uc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

// ─── Catálogo ────────────────────────────────────────────────────────────────

func TestCatalog_CategoriaDuplicada(t *testing.T) {
	ctx := context.Background()
	_, catalog := newProductUC()
	_, err := catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Ferretería"})
	require.NoError(t, err)
	_, err = catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Ferretería"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalog_UnidadesDeMedida(t *testing.T) {
	ctx := context.Background()
	_, catalog := newProductUC()
	u, err := catalog.CreateUnitOfMeasure(ctx, dto.CreateUnitOfMeasureRequest{Name: " Unidad ", Abbreviation: "un"})
	require.NoError(t, err)
	assert.Equal(t, "Unidad", u.Name)

	list, err := catalog.ListUnitsOfMeasure(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "un", list[0].Abbreviation)
}

func TestCatalog_TercerosFiltraPorTipo(t *testing.T) {
	ctx := context.Background()
	_, catalog := newProductUC()
	for _, in := range []dto.CreatePartnerRequest{
		{Name: "Acme", Type: "supplier"},
		{Name: "Tienda", Type: "customer"},
		{Name: "Mixto", Type: "both"},
	} {
		_, err := catalog.CreatePartner(ctx, in)
		require.NoError(t, err)
	}

	suppliers, err := catalog.ListPartners(ctx, "supplier", 20, 0)
	require.NoError(t, err)
	names := make([]string, 0, len(suppliers))
	for _, p := range suppliers {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Acme", "Mixto"}, names, "both cuenta como proveedor")

	all, err := catalog.ListPartners(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = catalog.ListPartners(ctx, "vendor", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = catalog.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "X", Type: "vendor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_GetPartnerInexistente(t *testing.T) {
	_, catalog := newProductUC()
	_, err := catalog.GetPartner(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Bodegas y ubicaciones ───────────────────────────────────────────────────

func newWarehouseUC() *usecase.WarehouseUseCase {
	store := memory.New()
	return usecase.NewWarehouseUseCase(store.Warehouses(), store.Locations())
}

func TestWarehouse_CodigoEnMayusculasYUnico(t *testing.T) {
	ctx := context.Background()
	uc := newWarehouseUC()

	wh, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "wh1", Name: "Principal"})
	require.NoError(t, err)
	assert.Equal(t, "WH1", wh.Code)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "  ", Name: "Vacía"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouse_Update(t *testing.T) {
	ctx := context.Background()
	uc := newWarehouseUC()
	wh, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Principal"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, wh.ID, dto.UpdateWarehouseRequest{Address: ptr("Calle 1")})
	require.NoError(t, err)
	assert.Equal(t, "Principal", updated.Name)
	assert.Equal(t, "Calle 1", updated.Address)

	list, err := uc.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestWarehouse_Ubicaciones(t *testing.T) {
	ctx := context.Background()
	uc := newWarehouseUC()
	wh, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Principal"})
	require.NoError(t, err)

	loc, err := uc.CreateLocation(ctx, wh.ID, dto.CreateLocationRequest{Name: "Rack A"})
	require.NoError(t, err)
	assert.Equal(t, "WH1/Rack A", loc.FullName)

	_, err = uc.CreateLocation(ctx, wh.ID, dto.CreateLocationRequest{Name: "Rack A"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CreateLocation(ctx, uuid.NewString(), dto.CreateLocationRequest{Name: "Rack B"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListLocations(ctx, wh.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "WH1", list[0].WarehouseCode)
}
