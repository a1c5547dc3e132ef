package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// PartCodeService catálogo de códigos de repuesto.
type PartCodeService interface {
	List(ctx context.Context) ([]dto.PartCodeResponse, error)
	Create(ctx context.Context, in dto.PartCodeRequest) (*dto.PartCodeResponse, error)
	Update(ctx context.Context, id string, in dto.PartCodeRequest) (*dto.PartCodeResponse, error)
	Delete(ctx context.Context, id string) error
}

// PartCodeHandler maneja /api/codigos.
type PartCodeHandler struct {
	uc PartCodeService
}

func NewPartCodeHandler(uc PartCodeService) *PartCodeHandler {
	return &PartCodeHandler{uc: uc}
}

// List godoc
// @Summary      Listar códigos de repuesto
// @Tags         codigos
// @Produce      json
// @Success      200  {array}  dto.PartCodeResponse
// @Router       /api/codigos [get]
func (h *PartCodeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear código de repuesto
// @Tags         codigos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartCodeRequest  true  "codigo, nombre"
// @Success      201   {object}  dto.PartCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/codigos [post]
func (h *PartCodeHandler) Create(c *fiber.Ctx) error {
	var in dto.PartCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar código de repuesto
// @Tags         codigos
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.PartCodeRequest  true  "codigo, nombre"
// @Success      200   {object}  dto.PartCodeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/codigos/{id} [put]
func (h *PartCodeHandler) Update(c *fiber.Ctx) error {
	var in dto.PartCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar código de repuesto
// @Tags         codigos
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/codigos/{id} [delete]
func (h *PartCodeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Código eliminado exitosamente"})
}
