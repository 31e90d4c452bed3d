package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) FinancialReport(c *gin.Context) {
	report, err := s.metricsSvc.FinancialReport(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) MonthlyComparison(c *gin.Context) {
	report, err := s.metricsSvc.MonthlyComparison(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) MRR(c *gin.Context) {
	mrr, err := s.metricsSvc.MRR(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"mrr": mrr}})
}

func (s *Server) ChurnRate(c *gin.Context) {
	churn, err := s.metricsSvc.ChurnRate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"churn_rate": churn}})
}

func (s *Server) LTV(c *gin.Context) {
	ltv, err := s.metricsSvc.LTV(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"ltv": ltv}})
}

// GenerateMonthlyRevenues snapshots the current month's revenue per
// active client. Intended to be hit by a scheduler near month end.
func (s *Server) GenerateMonthlyRevenues(c *gin.Context) {
	count, err := s.metricsSvc.GenerateMonthlyRevenues(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"generated": count}})
}
