package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
)

// AuthService operaciones de autenticación usadas por el handler.
type AuthService interface {
	RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// AuthHandler maneja registro, login y recuperación de contraseña.
type AuthHandler struct {
	uc AuthService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "nombre, correo, password"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/registro [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	user, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{Message: "Usuario registrado exitosamente", User: *user})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Correo inexistente y contraseña incorrecta responden el mismo 401.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "correo, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("%w: Credenciales inválidas", domain.ErrUnauthorized)
		}
		return err
	}
	return c.JSON(out)
}

// ForgotPassword godoc
// @Summary      Iniciar recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "correo"
// @Success      200   {object}  dto.ForgotPasswordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.ForgotPassword(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con el token recibido por correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password"
// @Success      200   {object}  dto.GreetingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	if err := h.uc.ResetPassword(c.Context(), in); err != nil {
		return err
	}
	return c.JSON(dto.GreetingResponse{Message: "Contraseña actualizada exitosamente"})
}

// Greeting godoc
// @Summary      Saludo al usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GreetingResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/protegida/usuario [get]
func (h *AuthHandler) Greeting(c *fiber.Ctx) error {
	return c.JSON(dto.GreetingResponse{Message: fmt.Sprintf("Hola %s, estás autenticado.", GetUserName(c))})
}
