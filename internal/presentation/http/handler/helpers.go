package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIDKey is the gin context key under which the auth middleware stores
// the JWT subject.
const ClientIDKey = "client_id"

// parseID reads a non-negative numeric path parameter. Zero is accepted and
// simply matches no supplier.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// queryParam returns a trimmed query parameter; blank values count as absent
func queryParam(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Query(name))
}

// GetClientID identifies the caller: the authenticated subject when present,
// the client IP otherwise.
func GetClientID(c *gin.Context) string {
	if id := c.GetString(ClientIDKey); id != "" {
		return id
	}
	return c.ClientIP()
}
