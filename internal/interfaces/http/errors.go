package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
)

// apiError error HTTP con código y mensaje propios.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

var errInvalidBody = &apiError{Status: fiber.StatusBadRequest, Code: "INVALID_BODY", Message: "cuerpo inválido"}

// mapping de errores de dominio a estado HTTP; el primero que coincide gana.
var mapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrExternal, fiber.StatusInternalServerError, "EXTERNAL"},
}

// ErrorHandler traduce los errores devueltos por los handlers a dto.ErrorResponse.
// Los errores internos solo exponen su detalle si exposeDetail es true (development).
func ErrorHandler(exposeDetail bool, log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apiError
		if errors.As(err, &ae) {
			return c.Status(ae.Status).JSON(dto.ErrorResponse{Code: ae.Code, Message: ae.Message})
		}

		var ise *domain.InsufficientStockError
		if errors.As(err, &ise) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
				Code:      "INSUFFICIENT_STOCK",
				Message:   "Stock insuficiente",
				Available: ise.Available,
				Requested: ise.Requested,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}

		for _, m := range mapping {
			if !errors.Is(err, m.target) {
				continue
			}
			resp := dto.ErrorResponse{Code: m.code, Message: clientMessage(err, m.target)}
			if m.status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("fallo de servicio externo")
				resp.Message = "Error al comunicarse con un servicio externo"
				if exposeDetail {
					resp.Detail = err.Error()
				}
			}
			return c.Status(m.status).JSON(resp)
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		resp := dto.ErrorResponse{Code: "INTERNAL", Message: "Error interno del servidor"}
		if exposeDetail {
			resp.Detail = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

// clientMessage quita el prefijo del sentinel ("entrada inválida: x" -> "x").
func clientMessage(err, target error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, target.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "ERROR"
	}
}
