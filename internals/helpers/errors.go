package helper

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
)

// AppError is a client-facing failure raised by services.
type AppError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func BadRequest(msg string) *AppError   { return NewAppError(http.StatusBadRequest, msg) }
func NotFound(msg string) *AppError     { return NewAppError(http.StatusNotFound, msg) }
func Forbidden(msg string) *AppError    { return NewAppError(http.StatusForbidden, msg) }
func Unauthorized(msg string) *AppError { return NewAppError(http.StatusUnauthorized, msg) }

// FieldError is a 400 tied to a single input field.
func FieldError(field, msg string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: msg,
		Fields:  map[string][]string{field: {msg}},
	}
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	// sqlite
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// FromError writes the standard error shape for any error a handler got back.
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if len(appErr.Fields) > 0 {
			return JsonValidationErrorMsg(c, appErr.Message, appErr.Fields)
		}
		return JsonError(c, appErr.Status, appErr.Message)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonError(c, fiber.StatusNotFound, "not found")
	}
	if IsUniqueViolation(err) {
		return JsonError(c, fiber.StatusBadRequest, "duplicate record")
	}

	configs.Log.Error("[ERROR] unhandled",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// FromFiberError is the fiber.Config.ErrorHandler.
func FromFiberError(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
