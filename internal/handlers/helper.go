package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// ParseIndexParam reads a zero-based index path parameter, answering 400 when it is not one.
func ParseIndexParam(c *gin.Context, param string) (int, bool) {
	value, err := strconv.Atoi(c.Param(param))
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a non-negative integer",
		})
		return 0, false
	}
	return value, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, key string, defaultValue int) int {
	if value, err := strconv.Atoi(c.Query(key)); err == nil {
		return value
	}
	return defaultValue
}
