package controllers

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type PermissionController struct {
	meals     *services.MealLogService
	estimator services.FoodEstimator
}

func NewPermissionController(meals *services.MealLogService, estimator services.FoodEstimator) *PermissionController {
	return &PermissionController{meals: meals, estimator: estimator}
}

// CanIEatInput carries either externally resolved macros or a free-text
// query for the estimator to resolve first.
type CanIEatInput struct {
	Query    string  `json:"query,omitempty"`
	Name     string  `json:"name,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

func (pc *PermissionController) CanIEat(c *gin.Context) {
	userID := c.GetUint("userID")

	var input CanIEatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food := services.FoodEstimate{
		Name:     input.Name,
		Calories: input.Calories,
		Protein:  input.Protein,
		Fat:      input.Fat,
		Carbs:    input.Carbs,
	}
	if input.Query != "" && input.Calories == 0 {
		estimated, err := pc.estimator.Estimate(c.Request.Context(), input.Query)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		food = estimated
	}

	result, err := pc.meals.CheckPermission(c.Request.Context(), userID, food)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTargetsSet):
			c.JSON(http.StatusOK, gin.H{"status": "no_targets"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "food": food})
}
