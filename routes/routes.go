package routes

import (
	"github.com/gin-gonic/gin"

	"backend/controllers"
	"backend/middlewares"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Meals     *controllers.MealController
	Allergies *controllers.AllergyController
	Realtime  *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers, jwtSecret string) *gin.Engine {
	r := gin.Default()
	requireAuth := middlewares.AuthMiddleware(jwtSecret)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/profile", requireAuth, ctrl.Auth.Profile)
	}

	meals := r.Group("/meals")
	meals.Use(requireAuth)
	{
		meals.POST("", ctrl.Meals.CreateMeal)
		meals.GET("", ctrl.Meals.ListMeals)
		meals.GET("/high-risk", ctrl.Meals.HighRisk)
		meals.GET("/most-allergies", ctrl.Meals.MostAllergies)
		meals.GET("/:id", ctrl.Meals.GetMeal)
		meals.PUT("/:id", ctrl.Meals.UpdateMeal)
		meals.DELETE("/:id", ctrl.Meals.DeleteMeal)
	}

	allergies := r.Group("/allergies")
	allergies.Use(requireAuth)
	{
		allergies.POST("", ctrl.Allergies.CreateAllergy)
		allergies.GET("", ctrl.Allergies.ListAllergies)
		allergies.GET("/users-with-allergies", ctrl.Allergies.UsersWithAllergies)
		allergies.GET("/meals-causing-allergies", ctrl.Allergies.MealsCausingAllergies)
		allergies.GET("/:id", ctrl.Allergies.GetAllergy)
		allergies.PUT("/:id", ctrl.Allergies.UpdateAllergy)
		allergies.DELETE("/:id", ctrl.Allergies.DeleteAllergy)
	}

	r.GET("/ws/risk", requireAuth, ctrl.Realtime.RiskFeed)

	return r
}
