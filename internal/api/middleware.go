package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/balkashynov/duedeck/internal/logger"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// requestID reuses the client's request id or creates one
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), id))
		c.Locals("request_id", id)
		return c.Next()
	}
}

// accessLog logs one line per request, at WARN for 4xx and ERROR for 5xx
func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		// render errors here so the logged status is the one sent
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()

		log := logger.WithRequestID(c.UserContext())
		logFunc := log.Info
		if status >= 500 {
			logFunc = log.Error
		} else if status >= 400 {
			logFunc = log.Warn
		}
		logFunc("request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
		)
		return nil
	}
}

// errorHandler renders errors that escape handlers, including fiber's own 404s
func errorHandler(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		logger.WithRequestID(c.UserContext()).Debug("validation failed", "fields", verr.Fields)
		return validationErrorResponse(c, verr.Fields)
	}
	if fe, ok := err.(*fiber.Error); ok {
		code := ErrCodeBadRequest
		switch fe.Code {
		case fiber.StatusNotFound:
			code = ErrCodeNotFound
		case fiber.StatusInternalServerError:
			code = ErrCodeInternalError
		}
		return errorResponse(c, fe.Code, code, fe.Message, nil)
	}
	logger.WithRequestID(c.UserContext()).Error("unhandled error", "error", err)
	return domainErrorResponse(c, err)
}
