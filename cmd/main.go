package main

import (
	"time"

	"backend/config"
	"backend/controllers"
	"backend/logger"
	"backend/repository"
	"backend/routes"
	"backend/services"
)

func main() {
	logger.Init()
	config.InitDB()

	loc, err := time.LoadLocation(config.GetEnv("DEFAULT_TIMEZONE", "Local"))
	if err != nil {
		logger.Warn("Invalid DEFAULT_TIMEZONE, falling back to local time", "error", err)
		loc = time.Local
	}

	store := repository.NewStore(config.DB)
	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(config.DB, hub)

	aggregator := services.NewAggregator(store, loc)
	classifier := services.NewClassifier(services.DefaultThresholds())
	engine := services.NewPermissionEngine(classifier)
	meals := services.NewMealLogService(store, store, store, aggregator, classifier, engine, hub, alerts)
	estimator := services.NewOpenFoodFactsEstimator()

	r := routes.SetupRouter(routes.Controllers{
		Goals:      controllers.NewGoalController(store),
		Targets:    controllers.NewTargetController(store),
		DayState:   controllers.NewDayStateController(meals),
		Permission: controllers.NewPermissionController(meals, estimator),
		Meals:      controllers.NewMealController(meals),
		Realtime:   controllers.NewRealtimeController(hub),
	})

	port := config.GetEnv("PORT", "8080")
	logger.Info("Server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
	}
}
