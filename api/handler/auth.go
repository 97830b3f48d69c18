package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/api/transport"
	"github.com/fastygo/onboarding/pkg/httpcontext"
	authUC "github.com/fastygo/onboarding/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc     *authUC.UseCase
	cookie SessionCookie
}

func NewAuthHandler(uc *authUC.UseCase, cookie SessionCookie, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookie:      cookie,
	}
}

// @Summary Refresh the current session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	sessionID := httpcontext.SessionID(ctx)
	if sessionID == "" {
		h.unauthorized(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, sessionID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	token, err := h.uc.IssueToken(session)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.cookie.Set(ctx, token, session.ExpiresAt)
	h.respondSuccess(ctx, http.StatusOK, transport.SessionResponse{
		SessionID: session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary Revoke the current session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := httpcontext.SessionID(ctx)
	if sessionID == "" {
		h.unauthorized(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RevokeSession(stdCtx, sessionID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.cookie.Clear(ctx)
	ctx.SetStatusCode(http.StatusNoContent)
}
