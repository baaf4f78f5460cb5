// Package api exposes the authentication flows over HTTP. Error mapping
// happens here: domain outcomes become client-safe JSON responses, anything
// unexpected becomes an opaque 500 with the full cause logged server-side.
package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/secureauth/secureauth/flow"
	"github.com/secureauth/secureauth/token"
)

// claimsContextKey is where AuthMiddleware stores the verified token claims
// for the downstream handler.
const claimsContextKey = "auth.claims"

type Handler struct {
	auth   *flow.Service
	tokens *token.Service
	log    *zap.Logger
}

func NewHandler(auth *flow.Service, tokens *token.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, tokens: tokens, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.HandleRegister)
	g.POST("/login", h.HandleLogin)

	protected := g.Group("")
	protected.Use(h.AuthMiddleware)
	protected.GET("/profile", h.HandleProfile)
}

func (h *Handler) HandleRegister(c echo.Context) error {
	var in flow.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	res, err := h.auth.Register(c.Request().Context(), c.RealIP(), in)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful",
		"token":   res.Token,
		"user":    res.Account,
	})
}

func (h *Handler) HandleLogin(c echo.Context) error {
	var in flow.LoginInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	res, err := h.auth.Login(c.Request().Context(), c.RealIP(), in)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.Account,
	})
}

// AuthMiddleware is the auth guard for protected routes. It extracts the
// bearer token, verifies it, and hands the claims to the handler through the
// echo context. It never touches the account store; whether to re-fetch the
// account is the flow's decision. The 401 message does not distinguish expiry
// from a bad signature or a malformed token.
func (h *Handler) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, raw, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || raw == "" || strings.ContainsRune(raw, ' ') {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authorization token required"})
		}

		claims, err := h.tokens.Verify(raw)
		if err != nil {
			h.log.Debug("token verification failed", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
		}

		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

func (h *Handler) HandleProfile(c echo.Context) error {
	claims, ok := c.Get(claimsContextKey).(*token.Claims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authorization token required"})
	}

	p, err := h.auth.Profile(c.Request().Context(), claims.Subject)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": p})
}

// flowError maps flow outcomes to responses. Unexpected errors are logged
// with full detail and answered with an opaque server fault.
func (h *Handler) flowError(c echo.Context, err error) error {
	var verr *flow.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Validation error",
			"details": verr.Messages(),
		})
	}

	if rle, ok := flow.AsRateLimitError(err); ok {
		seconds := int(math.Ceil(rle.RetryAfter.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"message": "Too many requests from this IP. Please try again later.",
		})
	}

	switch {
	case errors.Is(err, flow.ErrDuplicateAccount):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Email is already registered"})
	case errors.Is(err, flow.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	case errors.Is(err, flow.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
}
