package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/livetrack/support-service/internal/config"
	"github.com/livetrack/support-service/internal/observability"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// NewErrorHandler maps every returned error onto the DomainError taxonomy
// and renders the JSON error envelope.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if ok := asFiberError(err, &fiberErr); ok {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "HTTP_ERROR",
					"message": fiberErr.Message,
				},
			})
		}

		domainErr := apperrors.ToDomainError(err)
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("code", domainErr.Code),
				zap.Error(err),
			)
		} else {
			logger.Debug("request rejected",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("code", domainErr.Code),
			)
		}

		body := fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}
		if len(domainErr.Details) > 0 {
			body["details"] = domainErr.Details
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
	}
}

func asFiberError(err error, target **fiber.Error) bool {
	fe, ok := err.(*fiber.Error)
	if ok {
		*target = fe
	}
	return ok
}

// RequestTimeout bounds each request's user context with the configured
// deadline.
func RequestTimeout(cfg config.AppConfig) fiber.Handler {
	timeout := cfg.RequestTimeout()
	return func(c *fiber.Ctx) error {
		if timeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
