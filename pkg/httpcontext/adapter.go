package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/onboarding/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr     Key = "remote_addr"
	KeyUserAgent      Key = "user_agent"
	KeyAcceptLanguage Key = "accept_language"
)

const (
	HeaderRequestID = "X-Request-ID"

	userIDValue    = "auth.user_id"
	sessionIDValue = "auth.session_id"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if lang := AcceptLanguage(ctx); lang != "" {
		stdCtx = context.WithValue(stdCtx, KeyAcceptLanguage, lang)
	}

	return stdCtx, cancel
}

// RequestID returns the caller supplied request ID, minting one when absent.
// The minted ID is remembered so every lookup on the same request agrees.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID))); header != "" {
		return header
	}
	id := uuid.NewString()
	ctx.Request.Header.Set(HeaderRequestID, id)
	return id
}

func AcceptLanguage(ctx *fasthttp.RequestCtx) string {
	return strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAcceptLanguage)))
}

// SetSession records the authenticated user and session on the request.
func SetSession(ctx *fasthttp.RequestCtx, userID, sessionID string) {
	ctx.SetUserValue(userIDValue, userID)
	ctx.SetUserValue(sessionIDValue, sessionID)
}

// UserID returns the user stored by SetSession, or "".
func UserID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(userIDValue).(string)
	return id
}

// SessionID returns the session stored by SetSession, or "".
func SessionID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(sessionIDValue).(string)
	return id
}
