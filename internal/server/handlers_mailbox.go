package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListMail(c *gin.Context) {
	session := sessionFrom(c)
	mail, err := s.deps.Mailbox.List(c.Request.Context(), session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mailbox"})
		return
	}
	c.JSON(http.StatusOK, mail)
}

func (s *Server) handleMarkMailRead(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.deps.Mailbox.MarkRead(c.Request.Context(), session.Email, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mailbox"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
