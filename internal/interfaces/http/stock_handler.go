package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// StockService operaciones de stock usadas por el handler.
type StockService interface {
	ListAll(ctx context.Context) ([]dto.StockItemResponse, error)
	ListGeneral(ctx context.Context) ([]dto.StockItemResponse, error)
	ListByOwner(ctx context.Context, caller, owner string) ([]dto.StockItemResponse, error)
	Search(ctx context.Context, fragment string, owner *string) ([]dto.StockItemResponse, error)
	AddPersonal(ctx context.Context, caller string, in dto.AddPersonalStockRequest) (*dto.AddPersonalStockResponse, error)
	AddGeneral(ctx context.Context, in dto.AddGeneralStockRequest) (*dto.StockItemResponse, error)
	Update(ctx context.Context, caller, id string, in dto.UpdateStockRequest) (*dto.StockItemResponse, error)
	RemoveOne(ctx context.Context, caller, id string) (*dto.RemoveOneResponse, error)
	Delete(ctx context.Context, caller, id string) error
	History(ctx context.Context, caller, owner string) ([]dto.TransferRecordResponse, error)
}

// TransferService transferencia de stock entre usuarios.
type TransferService interface {
	Transfer(ctx context.Context, caller string, in dto.TransferRequest) (*dto.TransferResponse, error)
}

// StockHandler maneja stock general, personal y transferencias.
type StockHandler struct {
	uc       StockService
	transfer TransferService
}

// NewStockHandler construye el handler.
func NewStockHandler(uc StockService, transfer TransferService) *StockHandler {
	return &StockHandler{uc: uc, transfer: transfer}
}

// ListGeneral godoc
// @Summary      Listar stock general
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.StockItemResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListGeneral(c *fiber.Ctx) error {
	out, err := h.uc.ListGeneral(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar todo el stock (general y personal)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockItemResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/todos [get]
func (h *StockHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListByOwner godoc
// @Summary      Stock personal de un usuario (solo el propio)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        usuario  path  string  true  "Nombre del usuario"
// @Success      200  {array}   dto.StockItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/usuario/{usuario} [get]
func (h *StockHandler) ListByOwner(c *fiber.Ctx) error {
	out, err := h.uc.ListByOwner(c.Context(), GetUserName(c), c.Params("usuario"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar stock por código (sin distinguir mayúsculas)
// @Tags         stock
// @Produce      json
// @Param        codigo   path   string  true   "Fragmento del código"
// @Param        usuario  query  string  false  "Filtrar por propietario"
// @Success      200  {array}   dto.StockItemResponse
// @Router       /api/stock/buscar/{codigo} [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	var owner *string
	if u := c.Query("usuario"); u != "" {
		owner = &u
	}
	out, err := h.uc.Search(c.Context(), c.Params("codigo"), owner)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddPersonal godoc
// @Summary      Agregar stock personal (suma si el código ya existe)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddPersonalStockRequest  true  "codigo, nombre, cantidad"
// @Success      200   {object}  dto.AddPersonalStockResponse  "suma sobre un ítem existente"
// @Success      201   {object}  dto.AddPersonalStockResponse  "ítem creado"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/personal [post]
func (h *StockHandler) AddPersonal(c *fiber.Ctx) error {
	var in dto.AddPersonalStockRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.AddPersonal(c.Context(), GetUserName(c), in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if out.Operation == dto.OperationCreate {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// AddGeneral godoc
// @Summary      Agregar stock general
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddGeneralStockRequest  true  "codigo, nombre, cantidad"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) AddGeneral(c *fiber.Ctx) error {
	var in dto.AddGeneralStockRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.AddGeneral(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre o cantidad de un ítem
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del ítem"
// @Param        body  body  dto.UpdateStockRequest  true  "nombre, cantidad"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.Context(), GetUserName(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RemoveOne godoc
// @Summary      Quitar una unidad (elimina el ítem al llegar a cero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.RemoveOneResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/remove [put]
func (h *StockHandler) RemoveOne(c *fiber.Ctx) error {
	out, err := h.uc.RemoveOne(c.Context(), GetUserName(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un ítem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserName(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Stock eliminado correctamente"})
}

// History godoc
// @Summary      Últimas transferencias del usuario (origen o destino)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        usuario  path  string  true  "Nombre del usuario"
// @Success      200  {array}   dto.TransferRecordResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/transferencias/{usuario} [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), GetUserName(c), c.Params("usuario"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir stock personal a otro usuario
// @Description  Descuenta del origen, suma o crea en el destino y registra el historial en una transacción.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "codigo, cantidadTransferir, usuarioOrigen, usuarioDestino"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/transferir-personal [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.transfer.Transfer(c.Context(), GetUserName(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
