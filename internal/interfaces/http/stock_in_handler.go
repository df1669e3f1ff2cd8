package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// StockInService operaciones del libro de entradas que expone la API.
type StockInService interface {
	Create(ctx context.Context, rc inventory.RequestContext, in inventory.StockInInput) (*entity.StockInRecord, error)
	Update(ctx context.Context, rc inventory.RequestContext, id int64, in inventory.StockInInput) (*entity.StockInRecord, error)
	Delete(ctx context.Context, rc inventory.RequestContext, id int64) error
	Get(ctx context.Context, rc inventory.RequestContext, id int64) (*entity.StockInRecord, error)
	List(ctx context.Context, rc inventory.RequestContext, f repository.StockInFilter) ([]*entity.StockInRecord, error)
}

// ReceiptService genera el comprobante PDF de una entrada.
type ReceiptService interface {
	Generate(ctx context.Context, rc inventory.RequestContext, id int64) ([]byte, string, error)
}

// StockInHandler maneja /api/stock-ins (protegido).
type StockInHandler struct {
	svc      StockInService
	receipts ReceiptService
	loc      *time.Location
	log      zerolog.Logger
}

// NewStockInHandler construye el handler. loc es el calendario de las sucursales.
func NewStockInHandler(svc StockInService, receipts ReceiptService, loc *time.Location, log zerolog.Logger) *StockInHandler {
	return &StockInHandler{svc: svc, receipts: receipts, loc: loc, log: log}
}

// requestContext arma el contexto del solicitante a partir del token.
func requestContext(c *fiber.Ctx, loc *time.Location) inventory.RequestContext {
	return inventory.RequestContext{BranchID: GetBranchID(c), UserID: GetUserID(c), Location: loc}
}

func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
}

func toStockInInput(in dto.StockInRequest) (inventory.StockInInput, error) {
	kind, err := entity.ParseResourceKind(in.ResourceType)
	if err != nil {
		return inventory.StockInInput{}, err
	}
	out := inventory.StockInInput{
		ResourceType: kind,
		ResourceID:   in.ResourceID,
		QtyAdded:     in.QtyAdded,
		UnitCost:     in.UnitCost,
		SupplierName: in.SupplierName,
		ReferenceNo:  in.ReferenceNo,
		Note:         in.Note,
	}
	if in.StockInDate != "" {
		date, err := time.Parse(time.DateOnly, in.StockInDate)
		if err != nil {
			return inventory.StockInInput{}, err
		}
		out.StockInDate = &date
	}
	return out, nil
}

func toStockInResponse(rec *entity.StockInRecord) dto.StockInResponse {
	return dto.StockInResponse{
		ID:           rec.ID,
		BranchID:     rec.BranchID,
		ResourceType: rec.ResourceType.String(),
		ResourceID:   rec.ResourceID,
		ResourceName: rec.ResourceName,
		ResourceUnit: rec.ResourceUnit,
		QtyAdded:     rec.QtyAdded,
		PrevStock:    rec.PrevStock,
		NewStock:     rec.NewStock,
		UnitCost:     rec.UnitCost,
		PrevUnitCost: rec.PrevUnitCost,
		NewUnitCost:  rec.NewUnitCost,
		TotalCost:    rec.TotalCost,
		SupplierName: rec.SupplierName,
		ReferenceNo:  rec.ReferenceNo,
		Note:         rec.Note,
		StockInDate:  rec.StockInDate.Format(time.DateOnly),
		Active:       rec.Active,
		CreatedAt:    rec.CreatedAt,
		CreatedBy:    rec.CreatedBy,
		UpdatedAt:    rec.UpdatedAt,
		UpdatedBy:    rec.UpdatedBy,
	}
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Description  Suma la cantidad al recurso, recalcula el costo promedio ponderado y registra el gasto automático.
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "resource_type, resource_id, qty_added, unit_cost"
// @Success      201   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-ins [post]
func (h *StockInHandler) Create(c *fiber.Ctx) error {
	var req dto.StockInRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	in, err := toStockInInput(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rec, err := h.svc.Create(c.Context(), requestContext(c, h.loc), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockInResponse(rec))
}

// Update godoc
// @Summary      Editar entrada de stock
// @Description  Revierte el aporte anterior y aplica el nuevo. Si cambia el recurso, el anterior vuelve a su estado previo.
// @Tags         stock-ins
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID de la entrada"
// @Param        body  body  dto.StockInRequest  true  "nuevos datos de la entrada"
// @Success      200   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id} [put]
func (h *StockInHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var req dto.StockInRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	in, err := toStockInInput(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rec, err := h.svc.Update(c.Context(), requestContext(c, h.loc), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toStockInResponse(rec))
}

// Delete godoc
// @Summary      Retractar entrada de stock
// @Description  Resta la cantidad del recurso, restaura el costo y marca la entrada como inactiva. 409 si ya fue consumida.
// @Tags         stock-ins
// @Security     Bearer
// @Param        id  path  int  true  "ID de la entrada"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id} [delete]
func (h *StockInHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.svc.Delete(c.Context(), requestContext(c, h.loc), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener entrada de stock
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la entrada"
// @Success      200  {object}  dto.StockInResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id} [get]
func (h *StockInHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	rec, err := h.svc.Get(c.Context(), requestContext(c, h.loc), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toStockInResponse(rec))
}

// List godoc
// @Summary      Listar entradas de stock de la sucursal
// @Tags         stock-ins
// @Security     Bearer
// @Produce      json
// @Param        resource_type     query  string  false  "product | material"
// @Param        resource_id       query  int     false  "ID del recurso"
// @Param        from              query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        to                query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Param        include_inactive  query  bool    false  "Incluir entradas retractadas"
// @Param        limit             query  int     false  "Máximo de filas (1-200)"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.StockInResponse]
// @Router       /api/stock-ins [get]
func (h *StockInHandler) List(c *fiber.Ctx) error {
	var q dto.StockInListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()

	f := repository.StockInFilter{IncludeInactive: q.IncludeInactive, Limit: q.Limit, Offset: q.Offset}
	if q.ResourceType != "" {
		kind, err := entity.ParseResourceKind(q.ResourceType)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		f.ResourceType = &kind
	}
	if q.ResourceID > 0 {
		f.ResourceID = &q.ResourceID
	}
	if q.From != "" {
		from, _ := time.Parse(time.DateOnly, q.From)
		f.From = &from
	}
	if q.To != "" {
		to, _ := time.Parse(time.DateOnly, q.To)
		f.To = &to
	}

	recs, err := h.svc.List(c.Context(), requestContext(c, h.loc), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.StockInResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toStockInResponse(rec))
	}
	return c.JSON(dto.ListResponse[dto.StockInResponse]{Items: items, Count: len(items)})
}

// Receipt godoc
// @Summary      Comprobante PDF de una entrada
// @Tags         stock-ins
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la entrada"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-ins/{id}/receipt [get]
func (h *StockInHandler) Receipt(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	pdf, filename, err := h.receipts.Generate(c.Context(), requestContext(c, h.loc), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
