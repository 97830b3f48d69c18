package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/onboarding/api/transport"
	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/i18n"
	"github.com/fastygo/onboarding/pkg/httpcontext"
	"github.com/fastygo/onboarding/repository"
	"github.com/fastygo/onboarding/usecase/activation"
	authUC "github.com/fastygo/onboarding/usecase/auth"
)

type ActivationHandler struct {
	baseHandler
	users  repository.UserRepository
	uc     *activation.UseCase
	auth   *authUC.UseCase
	cookie SessionCookie
}

func NewActivationHandler(
	users repository.UserRepository,
	uc *activation.UseCase,
	auth *authUC.UseCase,
	cookie SessionCookie,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *ActivationHandler {
	return &ActivationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		users:       users,
		uc:          uc,
		auth:        auth,
		cookie:      cookie,
	}
}

// @Summary Activate a newly registered user
// @Description Requires the signup token issued at registration as a bearer token. The token is single use.
// @Tags activation
// @Produce json
// @Success 200 {object} transport.Envelope
// @Failure 401 {object} transport.Envelope
// @Router /api/v1/users/{id}/activation [post]
func (h *ActivationHandler) Activate(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token := bearerToken(ctx)
	if token == "" {
		h.unauthorized(ctx)
		return
	}
	if err := h.auth.RedeemSignupToken(stdCtx, token, userID(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	user, err := h.loadUser(stdCtx, ctx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	binder := &cookieBinder{auth: h.auth}
	activator := h.uc.NewActivator(user, binder, i18n.FromAcceptLanguage(httpcontext.AcceptLanguage(ctx)))

	if err := activator.Start(stdCtx); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	message, err := activator.Finish(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	if binder.token != "" {
		h.cookie.Set(ctx, binder.token, binder.expiresAt)
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ActivationResponse{
		Message:  message,
		Strategy: activator.Kind().String(),
	})
}

// @Summary Preview the activation message without side effects
// @Tags activation
// @Produce json
// @Router /api/v1/users/{id}/activation/message [get]
func (h *ActivationHandler) Message(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token := bearerToken(ctx)
	if token == "" {
		h.unauthorized(ctx)
		return
	}
	if _, err := h.auth.VerifySignupToken(token, userID(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	user, err := h.loadUser(stdCtx, ctx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	activator := h.uc.NewActivator(user, nil, i18n.FromAcceptLanguage(httpcontext.AcceptLanguage(ctx)))
	message, err := activator.SuccessMessage(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ActivationResponse{Message: message})
}

func (h *ActivationHandler) loadUser(stdCtx context.Context, ctx *fasthttp.RequestCtx) (*domain.User, error) {
	id := userID(ctx)
	if id == "" {
		return nil, domain.ErrInvalidPayload
	}
	return h.users.GetByID(stdCtx, id)
}

func userID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

// bearerToken returns the token from an "Authorization: Bearer" header.
// Cookies are ignored so a session cookie cannot stand in for a signup token.
func bearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// cookieBinder logs the user on for the current request and keeps the
// token so the handler can hand it back as a cookie.
type cookieBinder struct {
	auth      *authUC.UseCase
	token     string
	expiresAt time.Time
}

func (b *cookieBinder) LogOn(ctx context.Context, user *domain.User) error {
	session, token, err := b.auth.LogOn(ctx, user)
	if err != nil {
		return err
	}
	b.token = token
	b.expiresAt = session.ExpiresAt
	return nil
}

var _ activation.SessionBinder = (*cookieBinder)(nil)
