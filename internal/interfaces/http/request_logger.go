package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	headerRequestID = "X-Request-ID"
	localRequestID  = "request_id"
)

// RequestID asigna un id por request (respeta el que venga en X-Request-ID) y lo devuelve en la respuesta.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

// GetRequestID devuelve el id asignado por RequestID.
func GetRequestID(c *fiber.Ctx) string {
	v, _ := c.Locals(localRequestID).(string)
	return v
}

// RequestLogger registra una línea por request con status y latencia.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de Fiber fije el status antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int64("branch_id", GetBranchID(c)).
			Int64("user_id", GetUserID(c)).
			Msg("http request")
		return nil
	}
}
