package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxWorkerID  = "worker_id"
	CtxCompanyID = "company_id"
	CtxRole      = "role"
)

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetWorkerID extracts worker_id from the context.
// Writes a 401 and returns false when missing; the caller should return.
func MustGetWorkerID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxWorkerID)
}

// MustGetCompanyID extracts the tenant id from the context.
func MustGetCompanyID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxCompanyID)
}

// MustGetRole extracts role from the context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}
