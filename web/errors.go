package web

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"restaurant-menu/services"
)

// Error is an HTTP error with a stable machine-readable code.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

// fromService maps a data service failure onto a response. The client never
// learns whether the service was down, rejected the key or sent garbage.
func fromService(err error) *Error {
	if errors.Is(err, services.ErrNotFound) {
		return notFound("menu.not_found", "Not found")
	}
	return &Error{
		Status:  http.StatusBadGateway,
		Code:    "menu.data_service_unavailable",
		Message: "Failed to load menu data",
		Err:     err,
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	var webErr *Error
	if errors.As(err, &webErr) {
		if webErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("handler returned server error", zap.String("code", webErr.Code), zap.Error(webErr))
		} else {
			zap.L().Warn("handler returned client error", zap.String("code", webErr.Code), zap.Error(webErr))
		}
		return c.Status(webErr.Status).JSON(fiber.Map{
			"code":    webErr.Code,
			"message": webErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
