package handler

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/onboarding/internal/config"
)

// SessionCookie writes and clears the session token cookie.
type SessionCookie struct {
	cfg config.SessionConfig
}

func NewSessionCookie(cfg config.SessionConfig) SessionCookie {
	return SessionCookie{cfg: cfg}
}

func (s SessionCookie) Name() string {
	return s.cfg.CookieName
}

func (s SessionCookie) Set(ctx *fasthttp.RequestCtx, token string, expiresAt time.Time) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	c.SetKey(s.cfg.CookieName)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(s.cfg.Secure)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetExpire(expiresAt)
	ctx.Response.Header.SetCookie(c)
}

func (s SessionCookie) Clear(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.DelClientCookie(s.cfg.CookieName)
}
