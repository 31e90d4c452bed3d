package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartSync kicks off a reconciliation pass and answers immediately
// with the report id; progress is polled via the report routes.
func (s *Server) StartSync(c *gin.Context) {
	run, err := s.syncSvc.Start(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"report_id": run.ReportID.String(),
		"status":    "running",
	})
}

func (s *Server) ListSyncReports(c *gin.Context) {
	if c.Query("active") == "true" {
		reports, err := s.syncSvc.ActiveReports(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": reports})
		return
	}

	reports, err := s.syncSvc.ListReports(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (s *Server) GetSyncReport(c *gin.Context) {
	report, err := s.syncSvc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}
