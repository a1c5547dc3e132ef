package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// UsageService registros de uso de repuestos.
type UsageService interface {
	Consume(ctx context.Context, caller string, in dto.ConsumeRequest) (*dto.ConsumeResponse, error)
	ListAll(ctx context.Context) ([]dto.UsageRecordResponse, error)
	ListByOwner(ctx context.Context, caller, owner string) ([]dto.UsageRecordResponse, error)
	Stats(ctx context.Context, caller, owner string) ([]dto.UsageStatResponse, error)
	Delete(ctx context.Context, caller, id string) error
}

// UsageHandler maneja /api/usos.
type UsageHandler struct {
	uc UsageService
}

func NewUsageHandler(uc UsageService) *UsageHandler {
	return &UsageHandler{uc: uc}
}

// Consume godoc
// @Summary      Registrar el uso de un repuesto del stock personal
// @Tags         usos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "codigo, maquina, lugarUso, cliente, cantidad, tipoConsumo"
// @Success      201   {object}  dto.ConsumeResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/usos [post]
func (h *UsageHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Consume(c.Context(), GetUserName(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAll godoc
// @Summary      Listar todos los usos
// @Tags         usos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UsageRecordResponse
// @Router       /api/usos [get]
func (h *UsageHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListByOwner godoc
// @Summary      Usos del usuario autenticado, más recientes primero
// @Tags         usos
// @Security     Bearer
// @Produce      json
// @Param        usuario  path  string  true  "Nombre del usuario"
// @Success      200  {array}   dto.UsageRecordResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/usos/usuario/{usuario} [get]
func (h *UsageHandler) ListByOwner(c *fiber.Ctx) error {
	out, err := h.uc.ListByOwner(c.Context(), GetUserName(c), c.Params("usuario"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de uso por código
// @Tags         usos
// @Security     Bearer
// @Produce      json
// @Param        usuario  path  string  true  "Nombre del usuario"
// @Success      200  {array}   dto.UsageStatResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/usos/estadisticas/{usuario} [get]
func (h *UsageHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetUserName(c), c.Params("usuario"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un uso (solo el propietario)
// @Tags         usos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del uso"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usos/{id} [delete]
func (h *UsageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserName(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Uso eliminado correctamente"})
}
