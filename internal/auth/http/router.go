package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/request"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/logging"
	"github.com/focitech/focitech-backend/internal/validate"
)

const loginFailedMessage = "Authentication failed. Please check your credentials."

type Handler struct {
	mw       *middleware.Auth
	errs     *response.Writer
	accounts auth.Accounts
	limiter  gin.HandlerFunc
}

// New builds the auth handler. accounts may be nil, in which case only /me
// is served. limiter guards signup and login and may be nil.
func New(mw *middleware.Auth, errs *response.Writer, accounts auth.Accounts, limiter gin.HandlerFunc) *Handler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &Handler{mw: mw, errs: errs, accounts: accounts, limiter: limiter}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.mw.Authenticated(), h.Me)

	if h.accounts == nil {
		return
	}
	rg.POST("/signup", h.limiter, h.SignUp)
	rg.POST("/login", h.limiter, h.Login)
	rg.POST("/logout", h.mw.Authenticated(), h.Logout)
}

// Me echoes the verified identity so clients can check a token.
func (h *Handler) Me(c *gin.Context) {
	id, _ := auth.CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{
		"id":    id.ID,
		"email": id.Email,
		"role":  id.Role,
		"valid": true,
	})
}

func (h *Handler) SignUp(c *gin.Context) {
	var in auth.SignUpInput
	if err := request.BindJSON(c, &in); err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		h.errs.Error(c, err)
		return
	}

	acc, err := h.accounts.SignUp(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, auth.ErrAccountExists) {
			h.errs.Error(c, apperr.InvalidArgument("Signup failed. User might already exist."))
			return
		}
		h.errs.Error(c, apperr.Internal("signup failed", err))
		return
	}

	logging.FromContext(c.Request.Context()).Info("user registered", slog.String("email", acc.Email))
	c.JSON(http.StatusCreated, acc)
}

func (h *Handler) Login(c *gin.Context) {
	var in auth.Credentials
	if err := request.BindJSON(c, &in); err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		h.errs.Error(c, err)
		return
	}

	sess, err := h.accounts.SignIn(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordSignInDisabled) {
			h.errs.Error(c, apperr.Internal("password sign-in is not available", err))
			return
		}
		h.errs.Error(c, apperr.Unauthenticated(loginFailedMessage, err))
		return
	}

	logging.FromContext(c.Request.Context()).Info("user logged in", slog.String("email", in.Email))
	c.JSON(http.StatusOK, sess)
}

// Logout revokes the caller's refresh tokens. The client still clears its
// stored session.
func (h *Handler) Logout(c *gin.Context) {
	id, _ := auth.CurrentIdentity(c)
	if err := h.accounts.SignOut(c.Request.Context(), id.ID); err != nil {
		h.errs.Error(c, apperr.Internal("logout failed", err))
		return
	}
	response.Message(c, http.StatusOK, "Successfully logged out")
}
