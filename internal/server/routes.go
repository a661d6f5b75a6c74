package server

import "github.com/gin-gonic/gin"

func (s *Server) registerRoutes() {
	s.engine.Use(corsMiddleware())

	s.engine.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/reset/request", s.handleResetRequest)
		authGroup.POST("/reset/complete", s.handleResetComplete)
	}

	protected := api.Group("")
	protected.Use(s.requireAuth())
	{
		protected.POST("/auth/logout", s.handleLogout)

		protected.GET("/plan", s.handleGetPlan)
		protected.POST("/plan/generate", s.handleGeneratePlan)
		protected.PUT("/plan/meals/:index", s.handleUpdateMeal)
		protected.POST("/plan/save", s.handleSavePlan)

		protected.GET("/archive", s.handleListArchive)
		protected.POST("/archive/:id/recall", s.handleRecallPlan)
		protected.DELETE("/archive/:id", s.handleDeleteArchived)

		protected.GET("/tracker/today", s.handleTrackerToday)
		protected.POST("/tracker/tasks/:key/toggle", s.handleToggleTask)
		protected.POST("/tracker/foods", s.handleLogFood)
		protected.DELETE("/tracker/foods/:id", s.handleRemoveFood)
		protected.POST("/tracker/nutrition/refresh", s.handleRefreshNutrition)

		protected.GET("/mailbox", s.handleListMail)
		protected.POST("/mailbox/:id/read", s.handleMarkMailRead)
	}

	// Websocket endpoints authenticate via token query parameter since
	// browsers cannot set headers on websocket upgrades.
	ws := s.engine.Group("/ws")
	ws.Use(s.requireAuth())
	{
		ws.GET("/chat", s.handleChatSocket)
		ws.GET("/events", s.handleEventsSocket)
	}

	if s.deps.StaticDir != "" {
		s.engine.NoRoute(gin.WrapH(staticHandler(s.deps.StaticDir)))
	}
}
