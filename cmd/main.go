package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"

	"backend/config"
	"backend/controllers"
	"backend/migrations"
	"backend/repositories"
	"backend/routes"
	"backend/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadConfigOrPanic()

	if err := migrations.Run(cfg.DBConfig.URL()); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	db, err := config.InitDB(cfg.DBConfig)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	store := repositories.NewStore(db)
	hub := services.NewRealtimeHub()

	authService := services.NewAuthService(store, cfg.JWTConfig.Secret, cfg.JWTConfig.TokenTTL())
	mealService := services.NewMealService(store)
	allergyService := services.NewAllergyService(store, hub)

	router := routes.SetupRouter(routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Meals:     controllers.NewMealController(mealService),
		Allergies: controllers.NewAllergyController(allergyService),
		Realtime:  controllers.NewRealtimeController(hub),
	}, cfg.JWTConfig.Secret)

	handler := cors.AllowAll().Handler(router)

	addr := fmt.Sprintf(":%d", cfg.AppConfig.Port)
	slog.Info("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
