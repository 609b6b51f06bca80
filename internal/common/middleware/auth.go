package middleware

import (
	"github.com/gin-gonic/gin"

	"miniapp-user-backend/internal/common/errors"
)

// RequireIdentity rejects requests whose init data carried no usable user.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c); !ok {
			Abort(c, errors.NewUnauthorizedError("init data carries no user"))
			return
		}

		c.Next()
	}
}

func RequireAdmin(adminIDs []int64) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			Abort(c, errors.NewUnauthorizedError("init data carries no user"))
			return
		}

		if _, isAdmin := admins[id.TelegramID]; !isAdmin {
			Abort(c, errors.NewForbiddenError("admin access required"))
			return
		}

		c.Next()
	}
}
