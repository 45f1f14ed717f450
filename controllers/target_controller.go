package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TargetController struct {
	store *repository.Store
}

func NewTargetController(store *repository.Store) *TargetController {
	return &TargetController{store: store}
}

// SetTargetsInput accepts either biometrics (targets are derived) or
// explicit target values. Explicit values override derived ones.
type SetTargetsInput struct {
	Biometrics *services.BiometricInput `json:"biometrics,omitempty"`

	DailyCalorieTarget         float64  `json:"daily_calorie_target"`
	DailyProteinTargetG        float64  `json:"daily_protein_target_g"`
	DailyFatTargetG            float64  `json:"daily_fat_target_g"`
	DailyCarbsTargetG          float64  `json:"daily_carbs_target_g"`
	DamageControlFloorCalories *float64 `json:"damage_control_floor_calories,omitempty"`
	MacroPriority              []string `json:"macro_priority,omitempty"`
}

func (tc *TargetController) GetTargets(c *gin.Context) {
	userID := c.GetUint("userID")

	targets, err := tc.store.ActiveTargets(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoTargetsSet) {
			c.JSON(http.StatusOK, gin.H{"status": "no_targets"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (tc *TargetController) SetTargets(c *gin.Context) {
	userID := c.GetUint("userID")

	goalID, err := strconv.ParseUint(c.Param("goal_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}
	if _, err := tc.store.GoalForUser(c.Request.Context(), uint(goalID), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var input SetTargetsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targets, err := buildTargets(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tc.store.SaveTargets(c.Request.Context(), uint(goalID), targets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, targets)
}

// PreviewTargets is the dry-run endpoint: clients preview calculated
// targets through the same calculator that SetTargets uses, so the formula
// lives in exactly one place.
func (tc *TargetController) PreviewTargets(c *gin.Context) {
	var input services.BiometricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targets, err := services.CalculateTargets(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"targets": targets}
	if bmi, err := utils.CalculateBMI(input.HeightCm, input.WeightKg); err == nil {
		resp["bmi"] = bmi
		resp["bmi_category"] = utils.BMICategory(bmi)
	}
	c.JSON(http.StatusOK, resp)
}

func buildTargets(input SetTargetsInput) (*models.MacroTargets, error) {
	var targets *models.MacroTargets
	if input.Biometrics != nil {
		calculated, err := services.CalculateTargets(*input.Biometrics)
		if err != nil {
			return nil, err
		}
		targets = calculated
	} else {
		targets = &models.MacroTargets{
			DamageControlFloorCalories: services.DefaultDamageControlFloor,
		}
	}

	if input.DailyCalorieTarget > 0 {
		targets.DailyCalorieTarget = input.DailyCalorieTarget
	}
	if input.DailyProteinTargetG > 0 {
		targets.DailyProteinTargetG = input.DailyProteinTargetG
	}
	if input.DailyFatTargetG > 0 {
		targets.DailyFatTargetG = input.DailyFatTargetG
	}
	if input.DailyCarbsTargetG > 0 {
		targets.DailyCarbsTargetG = input.DailyCarbsTargetG
	}
	if input.DamageControlFloorCalories != nil {
		targets.DamageControlFloorCalories = *input.DamageControlFloorCalories
	}
	if err := targets.SetPriorityOrder(input.MacroPriority); err != nil {
		return nil, err
	}
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	return targets, nil
}
