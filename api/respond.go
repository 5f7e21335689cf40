package api

import "github.com/gin-gonic/gin"

// Envelope is the JSON shape every endpoint answers with, success
// and failure alike.
type Envelope struct {
	Message string `json:"message"`
	Payload any    `json:"payload"`
	Status  int    `json:"status"`
}

func respond(c *gin.Context, status int, message string, payload any) {
	c.JSON(status, Envelope{
		Message: message,
		Payload: payload,
		Status:  status,
	})
}

func respondErr(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Message: message,
		Payload: nil,
		Status:  status,
	})
}
