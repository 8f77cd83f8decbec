package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/insightdelivered/statement-ingest/internal/api"
	"github.com/insightdelivered/statement-ingest/internal/categorize"
	"github.com/insightdelivered/statement-ingest/internal/extractor"
	"github.com/insightdelivered/statement-ingest/internal/ingest"
	"github.com/insightdelivered/statement-ingest/internal/logger"
	"github.com/insightdelivered/statement-ingest/internal/store"
)

func main() {
	log := logger.New()

	db, err := store.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	st := store.New(db)

	var gen categorize.ContentGenerator = categorize.Disabled{}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		g, err := categorize.NewGeminiGenerator(context.Background(), key)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		gen = g
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; category analysis disabled")
	}

	svc := ingest.NewService(extractor.New(), st, log)
	analyzer := categorize.NewAnalyzer(st, gen, log)

	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statement PDFs, scanned ones included
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api.NewHandler(svc, analyzer, log).Register(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Info().Str("port", port).Msg("starting server")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
