package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/api/transport"
	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/pkg/httpcontext"
	"github.com/fastygo/onboarding/pkg/logger"
)

// Authenticator resolves a session token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// SessionAuth admits requests carrying a valid session token, read from the
// session cookie or a bearer Authorization header.
func SessionAuth(auth Authenticator, cookieName string, timeout time.Duration, log *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	adapter := httpcontext.NewAdapter(timeout)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := extractToken(ctx, cookieName)
			if token == "" {
				reject(ctx)
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			session, err := auth.Authenticate(stdCtx, token)
			cancel()
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.WithRequestID(stdCtx, log).Error("session lookup failed", zap.Error(err))
					respond(ctx, http.StatusServiceUnavailable, transport.NewError(string(domain.ErrCodeInternal), "session store unavailable", nil))
					return
				}
				logger.WithRequestID(stdCtx, log).Debug("rejected session token", zap.Error(err))
				reject(ctx)
				return
			}

			httpcontext.SetSession(ctx, session.UserID, session.ID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx, cookieName string) string {
	if cookieName != "" {
		if cookie := ctx.Request.Header.Cookie(cookieName); len(cookie) > 0 {
			return string(cookie)
		}
	}
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func reject(ctx *fasthttp.RequestCtx) {
	respond(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "authentication required", nil))
}

func respond(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(payload.String())
}
