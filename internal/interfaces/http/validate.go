package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationFields campo → regla incumplida.
func validationFields(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// parseBody decodifica y valida el cuerpo JSON. Si falla, ya escribió la respuesta 400 y devuelve ok=false.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return checkStruct(c, out)
}

// parseQuery decodifica y valida la query string.
func parseQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return checkStruct(c, out)
}

func checkStruct(c *fiber.Ctx, out any) (bool, error) {
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  validationFields(err),
		})
	}
	return true, nil
}
