package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// UserService directorio de usuarios.
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	ListActive(ctx context.Context) ([]dto.UserResponse, error)
	Search(ctx context.Context, term string) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
}

// UserHandler maneja /api/usuarios. Nunca expone hashes ni tokens.
type UserHandler struct {
	uc UserService
}

func NewUserHandler(uc UserService) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         usuarios
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListActive godoc
// @Summary      Usuarios sin recuperación de contraseña en curso
// @Tags         usuarios
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/usuarios/activos [get]
func (h *UserHandler) ListActive(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar usuarios por nombre (mínimo 2 caracteres, máximo 10 resultados)
// @Tags         usuarios
// @Produce      json
// @Param        termino  path  string  true  "Texto a buscar"
// @Success      200  {array}   dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/usuarios/buscar/{termino} [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.Context(), c.Params("termino"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         usuarios
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
