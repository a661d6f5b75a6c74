package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/plans"
)

func (s *Server) handleGeneratePlan(c *gin.Context) {
	session := sessionFrom(c)

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := s.deps.Plans.Generate(c.Request.Context(), session.Email, profile)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to compute protocol. Check biometric inputs."})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleGetPlan(c *gin.Context) {
	session := sessionFrom(c)
	plan, ok := s.deps.Plans.Active(session.Email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": plans.ErrNoActivePlan.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleUpdateMeal(c *gin.Context) {
	session := sessionFrom(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal index"})
		return
	}

	var edit plans.MealEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := s.deps.Plans.UpdateMeal(session.Email, index, edit)
	if err != nil {
		switch {
		case errors.Is(err, plans.ErrNoActivePlan):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, plans.ErrBadMealIndex):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "meal update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleSavePlan(c *gin.Context) {
	session := sessionFrom(c)
	saved, err := s.deps.Plans.Save(c.Request.Context(), session.Email)
	if err != nil {
		if errors.Is(err, plans.ErrNoActivePlan) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive plan"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleListArchive(c *gin.Context) {
	session := sessionFrom(c)
	list, err := s.deps.Plans.List(c.Request.Context(), session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load archive"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleRecallPlan(c *gin.Context) {
	session := sessionFrom(c)
	plan, err := s.deps.Plans.Recall(c.Request.Context(), session.Email, c.Param("id"))
	if err != nil {
		if errors.Is(err, plans.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recall plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleDeleteArchived(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.deps.Plans.Delete(c.Request.Context(), session.Email, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
