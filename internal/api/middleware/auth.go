package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/jwt"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/response"
)

// Context keys shared with the handler package.
const (
	ctxWorkerID  = "worker_id"
	ctxCompanyID = "company_id"
	ctxRole      = "role"
)

// JWTAuth verifies the Bearer access token issued by the identity service
// and puts the worker, tenant and role into the context.
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if claims.WorkerID == "" || claims.CompanyID == "" {
			response.Unauthorized(c, 10002, "token carries no tenant")
			c.Abort()
			return
		}

		c.Set(ctxWorkerID, claims.WorkerID)
		c.Set(ctxCompanyID, claims.CompanyID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RoleAuth allows the request only for one of allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "forbidden")
		c.Abort()
	}
}
