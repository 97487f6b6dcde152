package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/auth"
	"github.com/yakoovad/meeting-guide/internal/service"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

const claimsKey = "claims"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware rejects requests without a bearer token of an allowed type.
func AuthMiddleware(tokens *auth.Tokens, allowed ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := tokens.Authorize(c.Request().Header.Get(echo.HeaderAuthorization), allowed...)
			if err != nil {
				l := logger.FromContext(c.Request().Context())
				l.Warn("request rejected", zap.String("uri", c.Request().RequestURI), zap.Error(err))

				res := struct {
					Error *service.Error `json:"error"`
				}{}
				if errors.Is(err, auth.ErrForbidden) {
					res.Error = service.NewError(service.ErrorCodeForbidden, "token is not allowed here")
					return c.JSON(http.StatusForbidden, res)
				}
				res.Error = service.NewError(service.ErrorCodeUnauthorized, "missing or invalid token")
				return c.JSON(http.StatusUnauthorized, res)
			}

			c.Set(claimsKey, claims)
			ctx := logger.WithLogger(c.Request().Context(),
				logger.FromContext(c.Request().Context()).With(zap.String("editor", claims.Subject)))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
