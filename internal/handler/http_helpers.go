package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/service"
)

const dateFormat = service.DateLayout

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

var errInvalidQuery = errors.New("invalid query parameter")

// parseNonNegativeQuery 读取非负整数查询参数，缺省为 0
func parseNonNegativeQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s", errInvalidQuery, key)
	}
	return value, nil
}

// parsePeriodicityQuery 接受 daily/weekly 或天数，缺省为 0（不过滤）
func parsePeriodicityQuery(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("periodicity"))
	if raw == "" {
		return 0, nil
	}
	return service.ParsePeriodicity(raw)
}
