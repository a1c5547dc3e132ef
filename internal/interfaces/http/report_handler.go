package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// ReportService reportes por correo.
type ReportService interface {
	SendWeekly(ctx context.Context, automatic bool) (*dto.WeeklyReportResponse, error)
	SendTest(ctx context.Context) (*dto.TestEmailResponse, error)
	TestConfig() dto.TestConfigResponse
	SendPersonal(ctx context.Context, caller string, in dto.PersonalReportRequest) (*dto.PersonalReportResponse, error)
}

// ReportHandler maneja /api/correo.
type ReportHandler struct {
	uc ReportService
}

// NewReportHandler construye el handler.
func NewReportHandler(uc ReportService) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SendWeekly godoc
// @Summary      Enviar ahora el reporte de la semana en curso
// @Tags         correo
// @Produce      json
// @Success      200  {object}  dto.WeeklyReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/correo [post]
func (h *ReportHandler) SendWeekly(c *fiber.Ctx) error {
	out, err := h.uc.SendWeekly(c.Context(), false)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SendTest godoc
// @Summary      Enviar un correo de prueba a los destinatarios configurados
// @Tags         correo
// @Produce      json
// @Success      200  {object}  dto.TestEmailResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/correo/test [get]
func (h *ReportHandler) SendTest(c *fiber.Ctx) error {
	out, err := h.uc.SendTest(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TestConfig godoc
// @Summary      Destinatarios configurados y su validez
// @Tags         correo
// @Produce      json
// @Success      200  {object}  dto.TestConfigResponse
// @Router       /api/correo/test-config [get]
func (h *ReportHandler) TestConfig(c *fiber.Ctx) error {
	return c.JSON(h.uc.TestConfig())
}

// SendPersonal godoc
// @Summary      Enviar el reporte de los usos propios aún no enviados
// @Description  Marca los registros como enviados solo si el correo salió.
// @Tags         correo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PersonalReportRequest  true  "usuario, tipoConsumo, formato"
// @Success      200   {object}  dto.PersonalReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/correo/personal [post]
func (h *ReportHandler) SendPersonal(c *fiber.Ctx) error {
	var in dto.PersonalReportRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.SendPersonal(c.Context(), GetUserName(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
