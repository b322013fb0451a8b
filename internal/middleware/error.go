package middleware

import (
	"errors"
	"net/http"

	"dailydose/internal/domain"
	"dailydose/internal/dto"
	"dailydose/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is a centralized error handling middleware. Every failure
// leaves the API as the same envelope: {"error": {"code", "message", ...}}.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger := logger.Get()

		// Handle validation errors
		if validationErrs, ok := err.(domain.ValidationErrors); ok {
			logger.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: dto.ErrorBody{
					Code:    string(domain.CodeValidation),
					Message: "Request validation failed",
					Details: map[string]interface{}{"errors": validationErrs},
				},
			})
		}

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			logger.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Cause),
			)

			body := dto.ErrorBody{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
			}
			if len(domainErr.Context) > 0 {
				body.Details = domainErr.Context
			}
			return c.Status(statusCode).JSON(dto.ErrorResponse{Error: body})
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			logger.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Error: dto.ErrorBody{
					Code:    "HTTP_ERROR",
					Message: fiberErr.Message,
				},
			})
		}

		// Handle unknown errors
		logger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: dto.ErrorBody{
				Code:    string(domain.CodeInternal),
				Message: "Internal server error",
			},
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound, domain.CodeCardNotFound, domain.CodeBatchNotFound,
		domain.CodeSessionNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange, domain.CodeInvalidStep:
		return http.StatusBadRequest
	case domain.CodeApprovalBlocked, domain.CodePublishBlocked, domain.CodeInvalidTransition:
		return http.StatusConflict
	case domain.CodeLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
