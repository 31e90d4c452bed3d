package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convertfy/backoffice/internal/asaas"
)

func (s *Server) ListAsaasCustomers(c *gin.Context) {
	var query struct {
		Limit  int    `form:"limit"`
		Offset int    `form:"offset"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.asaasClient.ListCustomers(c.Request.Context(), asaas.ListCustomersRequest{
		Limit:  query.Limit,
		Offset: query.Offset,
		Status: asaas.CustomerStatus(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetAsaasCustomer(c *gin.Context) {
	customer, err := s.asaasClient.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) TestAsaasConnection(c *gin.Context) {
	if err := s.asaasClient.Ping(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"connected": true}})
}

// ProxyAsaas relays an arbitrary request to the billing provider and
// mirrors the upstream response untouched. Credentials stay server-side.
func (s *Server) ProxyAsaas(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.asaasClient.Do(
		c.Request.Context(),
		c.Request.Method,
		c.Param("path"),
		c.Request.URL.RawQuery,
		body,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
