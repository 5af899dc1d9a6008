package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"greetcard/internal/debug"
	appErrors "greetcard/internal/errors"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 64 << 10

func readJSON(c *gin.Context, dest any) error {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}

// writeStoreError maps structured error codes to HTTP statuses. Unexpected
// failures are logged and reported without detail.
func writeStoreError(c *gin.Context, err error) {
	code := appErrors.CodeOf(err)
	if !code.Caller() {
		debug.Logf("http: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	status := http.StatusBadRequest
	if code == appErrors.CodeNotFound {
		status = http.StatusNotFound
	}
	writeError(c, status, err.Error())
}
