package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

const (
	flashCookie    = "alumni_flash"
	flashMaxAge    = 60
	contextUser    = "webUser"
	contextFlash   = "webFlash"
	loginMessage   = "Please log in to access this page."
	adminMessage   = "Admin access required."
	approvalNotice = "Your account is pending approval."
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookieSecure, true)
}

// flash queues a message for the next page view
func (h *Handler) flash(c *gin.Context, category, msg string) {
	var pending []Flash
	if v, ok := c.Get(contextFlash); ok {
		pending, _ = v.([]Flash)
	}
	pending = append(pending, Flash{Category: category, Message: msg})
	c.Set(contextFlash, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	h.setCookie(c, flashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge)
}

// popFlashes returns the messages queued by the previous request and clears them
func (h *Handler) popFlashes(c *gin.Context) []Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	h.setCookie(c, flashCookie, "", -1)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func (h *Handler) startSession(c *gin.Context, accessToken string) {
	h.setCookie(c, h.authMW.CookieName(), accessToken, int(h.sessionTTL.Seconds()))
}

func (h *Handler) endSession(c *gin.Context) {
	h.setCookie(c, h.authMW.CookieName(), "", -1)
}

// currentUser returns the signed-in user, or nil for anonymous visitors and stale sessions
func (h *Handler) currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(contextUser); ok {
		user, _ := v.(*models.User)
		return user
	}

	var user *models.User
	if claims, err := h.authMW.Authenticate(c); err == nil {
		u, err := h.authz.GetUserInfo(c.Request.Context(), claims.UserID)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, apperrors.ErrUserNotFound):
			h.endSession(c)
		default:
			h.logger.Error().Err(err).Msg("Failed to load session user")
		}
	}
	c.Set(contextUser, user)
	return user
}

func (h *Handler) loginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.currentUser(c) == nil {
			h.flash(c, FlashInfo, loginMessage)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) approvedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := h.currentUser(c); user == nil || !user.CanAccessMemberArea() {
			h.flash(c, FlashWarning, approvalNotice)
			c.Redirect(http.StatusSeeOther, "/pending-approval")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := h.currentUser(c); user == nil || !user.IsAdmin() {
			h.flash(c, FlashError, adminMessage)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
