package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend/services"
)

type MealController struct {
	meals *services.MealService
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{meals: meals}
}

type CreateMealInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
}

// parseID reads a numeric path parameter. A non-numeric id cannot name
// any resource, so it surfaces as not found rather than bad request.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return 0, false
	}
	return uint(id), true
}

func (mc *MealController) CreateMeal(c *gin.Context) {
	var input CreateMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.meals.CreateMeal(c.Request.Context(), c.GetUint("userID"), input.Name, input.Description, input.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) ListMeals(c *gin.Context) {
	meals, err := mc.meals.ListMeals(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) GetMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	meal, err := mc.meals.GetMeal(c.Request.Context(), id, c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) UpdateMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Only name/description/ingredients bind; a risk score in the
	// payload is silently dropped.
	var input services.UpdateMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.meals.UpdateMeal(c.Request.Context(), id, c.GetUint("userID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := mc.meals.DeleteMeal(c.Request.Context(), id, c.GetUint("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (mc *MealController) HighRisk(c *gin.Context) {
	threshold := services.DefaultHighRiskThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number"})
			return
		}
		threshold = parsed
	}

	meals, err := mc.meals.ListHighRisk(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) MostAllergies(c *gin.Context) {
	counts, err := mc.meals.ListMealsWithMostAllergies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
