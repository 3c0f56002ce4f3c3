// Package httpapi exposes the nearby-group retrieval pipeline over HTTP.
package httpapi

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
	"github.com/aydeggy-dot/proximity/internal/logging"
	"github.com/aydeggy-dot/proximity/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler handles HTTP requests for nearby groups.
type Handler struct {
	store    store.Store
	logLevel logging.LogLevel
}

// NewHandler creates a new HTTP handler over the given store.
func NewHandler(st store.Store, logLevel logging.LogLevel) *Handler {
	return &Handler{
		store:    st,
		logLevel: logLevel,
	}
}

// nearbyGroup is the response shape for one group. Distance is omitted when
// no reference location was supplied or the group has no location center.
type nearbyGroup struct {
	groups.Group
	Distance      *float64 `json:"distance,omitempty"`
	DistanceLabel string   `json:"distance_label,omitempty"`
}

// nearbyResponse is the response shape for GET /v1/groups/nearby.
type nearbyResponse struct {
	Groups     []nearbyGroup   `json:"groups"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
	Center     *geo.Coordinate `json:"center,omitempty"`
}

// GetNearbyGroups handles GET /v1/groups/nearby.
func (h *Handler) GetNearbyGroups(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	radiusStr := c.Query("radius")
	pageSizeStr := c.Query("page_size")
	cursor := c.Query("cursor")

	// Parse the reference location. Both halves or neither.
	var reference *geo.Coordinate
	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be supplied together"})
			return
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
			return
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
			return
		}
		coord := geo.Coordinate{Latitude: lat, Longitude: lon}
		if err := coord.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		reference = &coord
	}

	// Parse the radius (meters). Requires a reference location.
	radius := -1.0
	if radiusStr != "" {
		r, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || r < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid radius: %s", radiusStr)})
			return
		}
		if reference == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius requires lat and lon"})
			return
		}
		radius = r
	}

	// Parse the page size.
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		n, err := strconv.Atoi(pageSizeStr)
		if err != nil || n < 1 || n > maxPageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid page_size: %s (must be between 1 and %d)", pageSizeStr, maxPageSize)})
			return
		}
		pageSize = n
	}

	page, err := h.store.FetchPage(c.Request.Context(), pageSize, cursor)
	if err != nil {
		if errors.Is(err, store.ErrBadCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		if h.logLevel <= logging.LogLevelError {
			log.Printf("Failed to fetch groups page: %v", err)
		}
		fetchErr := store.NormalizeError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "group store unavailable", "retriable": fetchErr.Retriable})
		return
	}

	// The exhaustion heuristic uses the fetched page size, before any radius
	// filtering shrinks it.
	hasMore := len(page.Groups) >= pageSize

	fetched := page.Groups
	if radius >= 0 {
		fetched = groups.FilterByRadiusWithLogLevel(fetched, *reference, radius, h.logLevel)
	}

	var ranked []groups.RankedGroup
	if reference != nil {
		ranked = groups.RankByDistance(fetched, *reference)
	} else {
		ranked = make([]groups.RankedGroup, len(fetched))
		for i, g := range fetched {
			ranked[i] = groups.RankedGroup{Group: g, Distance: math.Inf(1)}
		}
	}

	resp := nearbyResponse{
		Groups:     make([]nearbyGroup, len(ranked)),
		NextCursor: page.NextCursor,
		HasMore:    hasMore,
		Center:     pageCenter(ranked),
	}
	for i, g := range ranked {
		item := nearbyGroup{Group: g.Group}
		if !math.IsInf(g.Distance, 1) {
			d := g.Distance
			item.Distance = &d
			item.DistanceLabel = geo.FormatDistance(g.Distance)
		}
		resp.Groups[i] = item
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pageCenter returns the centroid of the located groups on the page, used by
// clients to center the map view.
func pageCenter(ranked []groups.RankedGroup) *geo.Coordinate {
	var points []geo.Coordinate
	for _, g := range ranked {
		if g.LocationCenter != nil {
			points = append(points, *g.LocationCenter)
		}
	}
	return geo.Centroid(points)
}
