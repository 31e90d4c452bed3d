package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convertfy/backoffice/internal/klaviyo"
)

// KlaviyoRevenue fetches the ordered-product revenue timeline for the
// window given in the query string. The API key is per-store, so it
// travels with the request instead of living in server config.
func (s *Server) KlaviyoRevenue(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	apiKey := c.Query("api_key")

	var missing []ValidationError
	requireField := func(field, value string) {
		if value == "" {
			missing = append(missing, ValidationError{
				Field:   field,
				Code:    "required",
				Message: field + " is required",
			})
		}
	}
	requireField("start_date", startDate)
	requireField("end_date", endDate)
	requireField("api_key", apiKey)
	if len(missing) > 0 {
		AbortWithError(c, &ValidationErrors{Errors: missing})
		return
	}

	data, err := s.klaviyoClient.RevenueTimeline(c.Request.Context(), klaviyo.RevenueTimelineRequest{
		StartDate: startDate,
		EndDate:   endDate,
		APIKey:    apiKey,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
