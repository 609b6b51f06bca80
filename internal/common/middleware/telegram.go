package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"miniapp-user-backend/internal/common/errors"
	"miniapp-user-backend/internal/features/auth/verifier"
)

// Context keys to store verified init data.
const (
	InitDataCtxKey = "init_data"
	IdentityCtxKey = "identity"
	UserIDCtxKey   = "user_id"

	InitDataHeader    = "init_data"
	AltInitDataHeader = "X-Telegram-Init-Data"
	authScheme        = "tma "
)

// TelegramInitData verifies the init data sent by the Mini App and stores the
// result in the context. It looks for the payload in (in order):
//  1. Header "init_data"
//  2. Header "X-Telegram-Init-Data"
//  3. Header "Authorization: tma <init data>"
func TelegramInitData(v *verifier.Verifier, botToken string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if botToken == "" {
			logger.Error().Msg("BOT_TOKEN is not configured, rejecting request")
			Abort(c, errors.New(errors.ErrCodeInternal, "init data validation is not configured"))
			return
		}

		payload := extractInitData(c)
		if payload == "" {
			Abort(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		res, err := v.Verify(payload, botToken)
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(InitDataCtxKey, res)
		if id, ok := res.Identity(); ok {
			c.Set(IdentityCtxKey, id)
			c.Set(UserIDCtxKey, id.ID)
		}

		c.Next()
	}
}

func extractInitData(c *gin.Context) string {
	if v := c.GetHeader(InitDataHeader); v != "" {
		return v
	}
	if v := c.GetHeader(AltInitDataHeader); v != "" {
		return v
	}
	if auth := c.GetHeader("Authorization"); len(auth) > len(authScheme) && strings.EqualFold(auth[:len(authScheme)], authScheme) {
		return strings.TrimSpace(auth[len(authScheme):])
	}
	return ""
}

// GetInitData returns the verified init data of the request.
func GetInitData(c *gin.Context) (*verifier.Result, bool) {
	v, exists := c.Get(InitDataCtxKey)
	if !exists {
		return nil, false
	}
	res, ok := v.(*verifier.Result)
	return res, ok
}

// GetIdentity returns the caller identity, false when init data had no user.
func GetIdentity(c *gin.Context) (verifier.Identity, bool) {
	v, exists := c.Get(IdentityCtxKey)
	if !exists {
		return verifier.Identity{}, false
	}
	id, ok := v.(verifier.Identity)
	return id, ok
}
