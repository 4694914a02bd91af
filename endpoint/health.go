package endpoint

import (
	"time"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
)

// ServiceVersion is reported by the banner, health and info endpoints.
const ServiceVersion = "1.0.0"

const serviceDescription = "Multimodal Acne Severity Classification & Prescription System"

// Root godoc
// @Summary Service banner
// @Tags Service
// @Produce json
// @Success 200 {object} util.APIResponse
// @Router / [get]
func Root(c *gin.Context) {
	cfg := config.LoadConfig()
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Service information", Data: map[string]interface{}{
		"status":      "healthy",
		"service":     cfg.AppName,
		"version":     ServiceVersion,
		"environment": cfg.AppEnv,
		"message":     serviceDescription,
	}})
}

// Health godoc
// @Summary Health check
// @Description Verify the database connection is alive
// @Tags Service
// @Produce json
// @Success 200 {object} util.APIResponse
// @Failure 503 {object} util.APIResponse
// @Router /health [get]
func Health(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		util.CallServiceUnavailable(c, util.APIErrorParams{Msg: "Database unreachable", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Service healthy", Data: map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}})
}

// Info godoc
// @Summary API information
// @Tags Service
// @Produce json
// @Success 200 {object} util.APIResponse
// @Router /api/v1/info [get]
func Info(c *gin.Context) {
	cfg := config.LoadConfig()
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "API information", Data: map[string]interface{}{
		"version":     ServiceVersion,
		"environment": cfg.AppEnv,
		"api_prefix":  "/api/v1",
		"endpoints": map[string]interface{}{
			"auth":         "/api/v1/auth",
			"diagnosis":    "/api/v1/diagnosis",
			"prescription": "/api/v1/prescription",
			"reminders":    "/api/v1/reminders",
		},
	}})
}
