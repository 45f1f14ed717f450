package routes

import (
	"backend/controllers"
	"backend/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Goals      *controllers.GoalController
	Targets    *controllers.TargetController
	DayState   *controllers.DayStateController
	Permission *controllers.PermissionController
	Meals      *controllers.MealController
	Realtime   *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/day-state", ctrl.DayState.GetDayState)
		api.GET("/day-state/transitions", ctrl.DayState.GetTransitions)

		api.GET("/goals", ctrl.Goals.GetGoals)
		api.POST("/goals", ctrl.Goals.CreateGoal)
		api.DELETE("/goals/:goal_id", ctrl.Goals.DeleteGoal)
		api.POST("/goals/:goal_id/targets", ctrl.Targets.SetTargets)

		api.GET("/targets", ctrl.Targets.GetTargets)
		api.POST("/targets/preview", ctrl.Targets.PreviewTargets)

		api.POST("/can-i-eat", ctrl.Permission.CanIEat)

		api.POST("/meals/log", ctrl.Meals.LogMeal)
		api.GET("/meals", ctrl.Meals.ListMeals)
		api.DELETE("/meals/:meal_id", ctrl.Meals.DeleteMealLog)

		api.GET("/ws", ctrl.Realtime.StateWS)
	}

	return r
}
