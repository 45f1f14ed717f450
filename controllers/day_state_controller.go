package controllers

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type DayStateController struct {
	meals *services.MealLogService
}

func NewDayStateController(meals *services.MealLogService) *DayStateController {
	return &DayStateController{meals: meals}
}

func (dc *DayStateController) GetDayState(c *gin.Context) {
	userID := c.GetUint("userID")

	state, err := dc.meals.CurrentState(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoTargetsSet) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "no_targets",
				"message": "Set a goal and macro targets to enable budget tracking.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (dc *DayStateController) GetTransitions(c *gin.Context) {
	userID := c.GetUint("userID")

	transitions, err := dc.meals.TransitionsToday(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transitions)
}
