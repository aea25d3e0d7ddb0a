package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) Chargeback(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))
	c.Set("period", period)

	report, err := s.chargebackSvc.Compute(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
