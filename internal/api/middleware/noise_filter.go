package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NoiseFilter keeps scanner traffic and health checks out of the access log.
// It must be registered after Logging so it runs first on the way out.
func NoiseFilter(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()

		switch {
		case path == "/health" && status == http.StatusOK:
			c.Set(SkipLoggingKey, true)
			return
		case status == http.StatusMethodNotAllowed:
			c.Set(SkipLoggingKey, true)
		case isScannerPath(path) && status >= 400:
			c.Set(SkipLoggingKey, true)
		default:
			return
		}

		logger.Debug("Scanner request filtered",
			"path", path,
			"method", c.Request.Method,
			"status", status,
			"client_ip", c.ClientIP())
	}
}

// isScannerPath checks if a path is commonly used by scanners
func isScannerPath(path string) bool {
	scannerPaths := []string{
		"/admin",
		"/phpmyadmin",
		"/wp-admin",
		"/wp-login",
		"/.env",
		"/.git",
		"/.aws",
		"/actuator",
		"/cgi-bin",
		"/.well-known",
		"/robots.txt",
		"/favicon.ico",
	}

	lowercasePath := strings.ToLower(path)
	for _, scannerPath := range scannerPaths {
		if strings.HasPrefix(lowercasePath, scannerPath) {
			return true
		}
	}

	for _, ext := range []string{".php", ".asp", ".aspx", ".jsp", ".bak", ".sql", ".zip"} {
		if strings.HasSuffix(lowercasePath, ext) {
			return true
		}
	}

	return false
}
