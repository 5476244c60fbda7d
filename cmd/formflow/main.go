package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/paulexconde/formflow/internal/handlers"
	"github.com/paulexconde/formflow/internal/models"
	"github.com/paulexconde/formflow/internal/pkg/workerpool"
	"github.com/paulexconde/formflow/internal/services"
	"github.com/paulexconde/formflow/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("error connecting to the database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := workerpool.NewWorkerPool(ctx, 2, 64)

	formStore := store.NewDataStore[models.Form](db, "forms")
	responseStore := store.NewDataStore[models.Response](db, "responses")

	formService := services.NewFormService(formStore, responseStore, pool)
	responseService := services.NewResponseService(responseStore, formStore)
	playbackService := services.NewPlaybackService()
	analyticsService := services.NewAnalyticsService()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app,
		handlers.NewFormHandler(formService),
		handlers.NewResponseHandler(responseService, formService, analyticsService),
		handlers.NewPlaybackHandler(formService, responseService, playbackService),
	)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Println("server is running on port " + port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool.Shutdown(shutdownCtx)
}
