// package utils provides utility functions to support various operations within the application.
package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrInvalidPathParam is returned when a numeric path parameter cannot be parsed.
var ErrInvalidPathParam = errors.New("invalid path parameter")

// ParseDiscoveryParams extracts the search radius (kilometers) and the zero-based
// page index from the path. Range checks are left to the discovery engine.
func ParseDiscoveryParams(c *gin.Context) (float64, int, error) {
	radiusKm, err := strconv.ParseFloat(strings.TrimSpace(c.Param(DistanceParamKey)), 64)
	if err != nil {
		return 0, 0, errors.Join(ErrInvalidPathParam, err)
	}

	page, err := strconv.Atoi(strings.TrimSpace(c.Param(PageParamKey)))
	if err != nil {
		return 0, 0, errors.Join(ErrInvalidPathParam, err)
	}

	return radiusKm, page, nil
}
