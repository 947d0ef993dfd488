package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RootHandler(info RootResponse) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	}
}
