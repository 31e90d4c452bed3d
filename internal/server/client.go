package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
)

func (s *Server) ListClients(c *gin.Context) {
	var query struct {
		Status   string `form:"status"`
		Plan     string `form:"plan"`
		Platform string `form:"platform"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clients, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListClientRequest{
		Status:   clientdomain.SubscriptionStatus(query.Status),
		Plan:     query.Plan,
		Platform: query.Platform,
		Search:   query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) CreateClient(c *gin.Context) {
	var req clientdomain.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.clientSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) GetClient(c *gin.Context) {
	client, err := s.clientSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) GetClientByUser(c *gin.Context) {
	client, err := s.clientSvc.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req clientdomain.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	updated, err := s.clientSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) DeleteClient(c *gin.Context) {
	if err := s.clientSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
