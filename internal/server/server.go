package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"datakeep/internal/config"
	"datakeep/internal/database"
	"datakeep/internal/handlers"
	"datakeep/internal/repositories"
	"datakeep/internal/resolver"
	"datakeep/internal/routes"
	"datakeep/internal/services"
)

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	pool, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Dependency injection
	projectRepo := repositories.NewProjectRepository(pool)
	sourceResolver := resolver.New(config.ResolverFromEnv())
	dataService := services.NewDataService(projectRepo, sourceResolver)
	projectHandler := handlers.NewProjectHandler(dataService)
	entryHandler := handlers.NewEntryHandler(dataService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())
	routes.RegisterRoutes(router, projectHandler, entryHandler)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
