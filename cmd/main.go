package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasknest/config"
	"tasknest/database"
	"tasknest/middleware"
	"tasknest/routes"
	"tasknest/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	// Initialize user service with auth service dependency
	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Register authentication routes
	routes.RegisterAuthRoutes(router, db, authService, userService)

	// Owner-scoped application routes
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(authService))
	routes.RegisterTaskRoutes(v1, db, services.TaskServiceInstance)
	routes.RegisterCategoryRoutes(v1, db, services.CategoryServiceInstance)
	routes.RegisterTagRoutes(v1, db, services.TagServiceInstance)

	// Read-only list API
	api := router.Group("/api", middleware.AuthMiddleware(authService))
	routes.RegisterReadAPIRoutes(api, db, services.TaskServiceInstance, services.CategoryServiceInstance)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
