package controllers

import (
	"net/http"
	"strconv"

	"backend/logger"
	"backend/models"
	"backend/repository"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	store *repository.Store
}

func NewGoalController(store *repository.Store) *GoalController {
	return &GoalController{store: store}
}

type CreateGoalInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (gc *GoalController) CreateGoal(c *gin.Context) {
	userID := c.GetUint("userID")

	var input CreateGoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := &models.Goal{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		IsActive:    true,
	}
	if err := gc.store.CreateGoal(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Goal created", "user_id", userID, "goal_id", goal.ID)
	c.JSON(http.StatusCreated, goal)
}

func (gc *GoalController) GetGoals(c *gin.Context) {
	userID := c.GetUint("userID")

	goals, err := gc.store.ListGoals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (gc *GoalController) DeleteGoal(c *gin.Context) {
	userID := c.GetUint("userID")

	goalID, err := strconv.ParseUint(c.Param("goal_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	deleted, err := gc.store.DeleteGoal(c.Request.Context(), uint(goalID), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}
