package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutriplan/backend/internal/tracker"
)

func (s *Server) handleTrackerToday(c *gin.Context) {
	session := sessionFrom(c)
	sheet, err := s.deps.Tracker.LoadForToday(c.Request.Context(), session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tracker"})
		return
	}
	plan, _ := s.deps.Plans.Active(session.Email)
	c.JSON(http.StatusOK, gin.H{
		"sheet":    sheet,
		"progress": tracker.Progress(sheet, plan),
	})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	session := sessionFrom(c)
	sheet, err := s.deps.Tracker.ToggleTask(c.Request.Context(), session.Email, c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle task"})
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleLogFood(c *gin.Context) {
	session := sessionFrom(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := s.deps.Tracker.LogFood(c.Request.Context(), session.Email, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log food"})
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleRemoveFood(c *gin.Context) {
	session := sessionFrom(c)
	sheet, err := s.deps.Tracker.RemoveFood(c.Request.Context(), session.Email, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove food"})
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleRefreshNutrition(c *gin.Context) {
	session := sessionFrom(c)
	sheet, err := s.deps.Tracker.RefreshNutrition(c.Request.Context(), session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh nutrition"})
		return
	}
	c.JSON(http.StatusOK, sheet)
}
