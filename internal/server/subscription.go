package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptiondomain "github.com/convertfy/backoffice/internal/subscription/domain"
)

func (s *Server) ListSubscriptions(c *gin.Context) {
	var query struct {
		ClientID string `form:"client_id"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subs, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{
		ClientID: query.ClientID,
		Status:   subscriptiondomain.Status(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subs})
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptiondomain.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.subscriptionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) GetSubscription(c *gin.Context) {
	sub, err := s.subscriptionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sub})
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	var req subscriptiondomain.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	updated, err := s.subscriptionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// An empty body is fine, the reason falls back to a default.
	_ = c.ShouldBindJSON(&req)

	cancelled, err := s.subscriptionSvc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cancelled})
}
