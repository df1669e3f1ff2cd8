package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// errorStatus traduce errores de dominio a status HTTP y código de la API.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrBranchMismatch):
		return fiber.StatusForbidden, "BRANCH_MISMATCH"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "STOCK_CONFLICT"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) && temp.Temporary() {
		return fiber.StatusServiceUnavailable, "RESOURCE_BUSY"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el ErrorResponse. Los errores internos y transitorios no exponen detalle y se registran.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	switch status {
	case fiber.StatusServiceUnavailable:
		log.Warn().Err(err).
			Str("request_id", GetRequestID(c)).
			Str("path", c.Path()).
			Msg("recurso ocupado")
		msg = "recurso ocupado por otra operación, reintente"
	case fiber.StatusInternalServerError:
		log.Error().Err(err).
			Str("request_id", GetRequestID(c)).
			Str("path", c.Path()).
			Msg("error interno")
		msg = "error interno, intente más tarde"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
