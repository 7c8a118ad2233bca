package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/services"
)

type AllergyController struct {
	allergies *services.AllergyService
}

func NewAllergyController(allergies *services.AllergyService) *AllergyController {
	return &AllergyController{allergies: allergies}
}

type CreateAllergyInput struct {
	MealID   uint   `json:"meal_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Severity string `json:"severity"`
}

func (ac *AllergyController) CreateAllergy(c *gin.Context) {
	var input CreateAllergyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allergy, err := ac.allergies.CreateAllergy(c.Request.Context(), c.GetUint("userID"), input.MealID, input.Name, input.Severity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, allergy)
}

func (ac *AllergyController) ListAllergies(c *gin.Context) {
	allergies, err := ac.allergies.ListAllergies(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allergies)
}

func (ac *AllergyController) GetAllergy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	allergy, err := ac.allergies.GetAllergy(c.Request.Context(), id, c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allergy)
}

func (ac *AllergyController) UpdateAllergy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.UpdateAllergyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allergy, err := ac.allergies.UpdateAllergy(c.Request.Context(), id, c.GetUint("userID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allergy)
}

func (ac *AllergyController) DeleteAllergy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.allergies.DeleteAllergy(c.Request.Context(), id, c.GetUint("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AllergyController) UsersWithAllergies(c *gin.Context) {
	counts, err := ac.allergies.UsersWithAllergies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (ac *AllergyController) MealsCausingAllergies(c *gin.Context) {
	counts, err := ac.allergies.MealsCausingAllergies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
