package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
)

// AuthService login y perfil.
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// AuthHandler maneja login y perfil.
type AuthHandler struct {
	uc  AuthService
	log zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		status, code := errorStatus(err)
		switch code {
		case "UNAUTHORIZED":
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "credenciales inválidas"})
		case "FORBIDDEN":
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "cuenta inactiva"})
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
