package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) HealthCheck(c *gin.Context) {
	respond(c, http.StatusOK, "success", gin.H{"check": "donation server started ok*-*"})
}
