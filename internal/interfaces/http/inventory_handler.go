package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// AuditTrailService historial unificado de inventario.
type AuditTrailService interface {
	List(ctx context.Context, rc inventory.RequestContext, q inventory.AuditTrailQuery) ([]entity.AuditEvent, error)
}

// AvailabilityService disponibilidad de menús.
type AvailabilityService interface {
	List(ctx context.Context, rc inventory.RequestContext) ([]entity.MenuAvailability, error)
}

// InventoryHandler lecturas de inventario (protegido): historial y disponibilidad de menús.
type InventoryHandler struct {
	audit        AuditTrailService
	availability AvailabilityService
	loc          *time.Location
	log          zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(audit AuditTrailService, availability AvailabilityService, loc *time.Location, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{audit: audit, availability: availability, loc: loc, log: log}
}

// AuditTrail godoc
// @Summary      Historial de inventario
// @Description  Entradas (incluidas las retractadas, active=false) y salidas por pedido, más recientes primero. Máximo 1000 eventos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        resource_type  query  string  false  "product | material"
// @Param        resource_id    query  int     false  "ID del recurso"
// @Param        search         query  string  false  "Nombre del recurso, proveedor o referencia (sin distinguir tildes)"
// @Success      200  {object}  dto.ListResponse[entity.AuditEvent]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit-trail [get]
func (h *InventoryHandler) AuditTrail(c *fiber.Ctx) error {
	var q dto.AuditTrailQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	query := inventory.AuditTrailQuery{Search: q.Search}
	if q.ResourceType != "" {
		kind, err := entity.ParseResourceKind(q.ResourceType)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		query.ResourceType = &kind
	}
	if q.ResourceID > 0 {
		query.ResourceID = &q.ResourceID
	}

	events, err := h.audit.List(c.Context(), requestContext(c, h.loc), query)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse[entity.AuditEvent]{Items: events, Count: len(events)})
}

// MenuAvailability godoc
// @Summary      Disponibilidad de menús
// @Description  Porciones preparables de cada menú activo según el stock de sus ingredientes.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[entity.MenuAvailability]
// @Router       /api/menus/availability [get]
func (h *InventoryHandler) MenuAvailability(c *fiber.Ctx) error {
	items, err := h.availability.List(c.Context(), requestContext(c, h.loc))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse[entity.MenuAvailability]{Items: items, Count: len(items)})
}
