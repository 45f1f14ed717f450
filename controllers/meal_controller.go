package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MealController struct {
	meals *services.MealLogService
}

func NewMealController(meals *services.MealLogService) *MealController {
	return &MealController{meals: meals}
}

type LogMealInput struct {
	services.MealInput
	WasOverride bool `json:"was_override"`
}

func (mc *MealController) LogMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	var input LogMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := mc.meals.LogMeal(c.Request.Context(), userID, input.MealInput, input.WasOverride)
	if err != nil {
		var blocked *services.BlockedError
		switch {
		case errors.As(err, &blocked):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": "blocked",
				"reason": blocked.Result.Reason,
				"result": blocked.Result,
			})
		case errors.Is(err, services.ErrNoTargetsSet):
			c.JSON(http.StatusConflict, gin.H{"status": "no_targets"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "write conflict, retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"state": state})
}

func (mc *MealController) ListMeals(c *gin.Context) {
	userID := c.GetUint("userID")

	entries, err := mc.meals.ListToday(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (mc *MealController) DeleteMealLog(c *gin.Context) {
	userID := c.GetUint("userID")

	mealID, err := strconv.ParseUint(c.Param("meal_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	if err := mc.meals.DeleteMealLog(c.Request.Context(), userID, uint(mealID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}
