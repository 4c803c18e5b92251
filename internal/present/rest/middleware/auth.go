package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gestionale/internal/domain"
	"gestionale/internal/present/rest/presenter"
	"gestionale/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireSession rejects any request that does not carry a valid
// session cookie. There is a single authenticated role; a valid
// session grants full access.
func (m *AuthMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireSession")
		defer span.End()

		cookie, err := c.Cookie(service.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return presenter.Unauthorized(c)
		}

		operator, err := m.auth.Authorize(ctx, cookie.Value)
		if err != nil {
			span.RecordError(err)
			return presenter.Unauthorized(c)
		}

		ctx = context.WithValue(ctx, domain.OperatorCtxKey, operator)
		span.SetAttributes(attribute.String("Operator", operator.Email))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
