// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/acneai/backend/config"
	_ "github.com/acneai/backend/docs"
	"github.com/acneai/backend/endpoint"
	"github.com/acneai/backend/middleware"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"gorm.io/gorm"
)

// @title AcneAI Backend API
// @version 1.0
// @description Multimodal acne severity classification and prescription service
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Diagnosis{},
		&model.Prescription{},
		&model.Reminder{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	// Redis backs the session mirror and the rate limiter; both degrade
	// gracefully when it is unreachable.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, sessions fall back to the database: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	util.InitUserEmailCacheFromEnv()
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("GeoIP database not loaded, security logs omit locations: %v", err)
	}
	defer util.CloseGeoIP()

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := setupRouter(cfg, db)

	address := fmt.Sprintf(":%d", cfg.AppPort)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	log.Printf("%s listening on %s", cfg.AppName, address)
	waitForShutdown(server)
}

func setupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(cfg.MaxUploadSize + 1024*1024))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", endpoint.Root)
	router.GET("/health", endpoint.Health)
	router.Static("/uploads", cfg.UploadDir)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.GET("/info", endpoint.Info)

	// Credential endpoints carry a per-IP rate limit.
	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	auth := api.Group("/auth")
	auth.POST("/register", loginLimiter, endpoint.Register)
	auth.POST("/login", loginLimiter, endpoint.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	authed.GET("/auth/me", endpoint.Me)
	authed.PUT("/auth/me", endpoint.UpdateMe)
	authed.POST("/auth/logout", endpoint.Logout)
	authed.GET("/auth/validate", endpoint.ValidateToken)

	diagnosis := authed.Group("/diagnosis")
	diagnosis.POST("/analyze", endpoint.AnalyzeImage)
	diagnosis.GET("", endpoint.ListDiagnoses)
	diagnosis.GET("/:id", endpoint.GetDiagnosis)

	prescription := authed.Group("/prescription")
	prescription.POST("/generate", endpoint.GeneratePrescription)
	prescription.POST("/translate", endpoint.TranslatePrescription)
	prescription.GET("", endpoint.ListPrescriptions)
	prescription.GET("/:id", endpoint.GetPrescription)

	reminders := authed.Group("/reminders")
	reminders.POST("/create", endpoint.CreateReminder)
	reminders.GET("", endpoint.ListReminders)
	reminders.GET("/:id", endpoint.GetReminder)
	reminders.POST("/:id/acknowledge", endpoint.AcknowledgeReminder)
	reminders.DELETE("/:id", endpoint.DeleteReminder)
	reminders.POST("/auto-schedule/:prescription_id", endpoint.AutoScheduleReminders)

	return router
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
