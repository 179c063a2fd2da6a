package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/gin-gonic/gin"
)

// MediaFetch serves a stored image (disk) or redirects to it (S3, MinIO)
func MediaFetch(c *gin.Context) {
	p := strings.TrimPrefix(path.Clean("/"+c.Param("path")), "/")
	if p == "" || p == "." || strings.Contains(p, "..") {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	storage.GetDefaultStorage().Serve(p, c.Request, c.Writer)
}
