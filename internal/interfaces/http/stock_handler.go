package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// StockHandler consultas de niveles de stock y del libro de movimientos (protegido).
type StockHandler struct {
	uc   *inventory.StockQueryUseCase
	docs *inventory.DocumentUseCase
}

// NewStockHandler construye el handler. docs puede ser nil (sin exportación XML).
func NewStockHandler(uc *inventory.StockQueryUseCase, docs *inventory.DocumentUseCase) *StockHandler {
	return &StockHandler{uc: uc, docs: docs}
}

// GetLevel godoc
// @Summary      Stock de un producto en una ubicación
// @Description  0 si el par nunca tuvo movimientos.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "ID del producto"
// @Param        location_id  query  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	out, err := h.uc.GetLevel(c.UserContext(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByLocation godoc
// @Summary      Stock de todos los productos en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) ByLocation(c *fiber.Ctx) error {
	out, err := h.uc.LevelsByLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByProduct godoc
// @Summary      Stock de un producto en todas sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.uc.LevelsByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Libro de movimientos
// @Description  Más recientes primero. from/to en RFC3339.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "ID del producto"
// @Param        location_id   query  string  false  "ID de la ubicación"
// @Param        operation_id  query  string  false  "ID de la operación"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.LedgerListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	in := ledgerFilter(c)
	in.PageRequest = page(c)
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.Ledger(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportLedger godoc
// @Summary      Exportar el libro en XML con digest
// @Description  Mismos filtros que /api/ledger; sin limit exporta todos los registros.
// @Tags         stock
// @Security     Bearer
// @Produce      application/xml
// @Param        product_id    query  string  false  "ID del producto"
// @Param        location_id   query  string  false  "ID de la ubicación"
// @Param        operation_id  query  string  false  "ID de la operación"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/export.xml [get]
func (h *StockHandler) ExportLedger(c *fiber.Ctx) error {
	if h.docs == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "exportación XML no configurada"})
	}
	in := ledgerFilter(c)
	in.Limit = c.QueryInt("limit", 0)
	in.Offset = c.QueryInt("offset", 0)
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	doc, err := h.docs.ExportLedgerXML(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-ledger.xml"`)
	return c.Send(doc)
}

func ledgerFilter(c *fiber.Ctx) dto.LedgerFilterRequest {
	return dto.LedgerFilterRequest{
		ProductID:   c.Query("product_id"),
		LocationID:  c.Query("location_id"),
		OperationID: c.Query("operation_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}
}
