package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Response is the envelope every endpoint answers with. Data and Message are
// mutually optional; Status is always "success" or "error".
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// SendData writes a success envelope with a payload.
func SendData(c *fiber.Ctx, code int, data any) error {
	return c.Status(code).JSON(Response{Status: statusSuccess, Data: data})
}

// SendMessage writes a success envelope with a human readable message.
func SendMessage(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Response{Status: statusSuccess, Message: message})
}

// SendError writes an error envelope.
func SendError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Response{Status: statusError, Message: message})
}

// MapError translates domain errors into envelope responses. Every error on
// an authentication path collapses into the same 401 body; undecodable and
// unknown identifiers are indistinguishable 404s.
func MapError(c *fiber.Ctx, err error) error {
	if err == nil {
		return SendMessage(c, fiber.StatusOK, "ok")
	}

	if repository.IsRecordNotFound(err) ||
		errors.Is(err, opaqueid.ErrInvalidLength) ||
		errors.Is(err, opaqueid.ErrInvalidAlphabet) {
		return SendError(c, fiber.StatusNotFound, "record not found")
	}

	if catalog.IsConflictError(err) {
		return SendError(c, fiber.StatusConflict, err.Error())
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryAuthz:
			return SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
		case errors.CategoryNotFound:
			return SendError(c, fiber.StatusNotFound, "record not found")
		case errors.CategoryConflict:
			return SendError(c, fiber.StatusConflict, richErr.Message)
		case errors.CategoryValidation, errors.CategoryBadInput:
			return SendError(c, fiber.StatusBadRequest, richErr.Message)
		}
	}

	return SendError(c, fiber.StatusInternalServerError, "internal server error")
}
