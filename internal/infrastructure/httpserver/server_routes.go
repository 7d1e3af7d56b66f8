package httpserver

import (
	"github.com/avatarctic/step-challenge/internal/infrastructure/storage"
)

func (s *Server) setupRoutes() {
	root := s.echo.Group(s.config.BasePath)
	root.GET("/health", s.healthCheck)
	root.GET("/metrics", s.metricsEndpoint)
	if s.config.StorageRoot != "" {
		root.Static(storage.PublicPath, s.config.StorageRoot)
	}

	root.POST("/api/v1/contact", s.sendContactMessage, s.middleware.RateLimit.Handler())

	api := root.Group("/api/v1",
		s.middleware.JWT.RequireJWT(),
		s.middleware.RateLimit.Handler(),
		s.middleware.Competition.ResolveCompetition(),
	)

	competitions := api.Group("/competitions")
	competitions.GET("", s.listCompetitions)
	competitions.POST("", s.createCompetition)
	competitions.GET("/mine", s.listOwnCompetitions)
	competitions.GET("/:id", s.getCompetition)
	competitions.PUT("/:id", s.updateCompetition)
	competitions.POST("/:id/join", s.joinCompetition)

	preferences := api.Group("/preferences")
	preferences.GET("/competition", s.getSelectedCompetition)
	preferences.PUT("/competition", s.selectCompetition)
	preferences.PUT("/invite-key", s.setInviteKey)

	steps := api.Group("/steps")
	steps.GET("", s.getUserSteps)
	steps.POST("", s.addSteps)
	steps.GET("/total", s.getUserTotalSteps)
	steps.GET("/top", s.getTopUsers)
	steps.GET("/date/:date", s.getStepsOnDate)
	steps.DELETE("/:id", s.deleteSteps)

	teams := api.Group("/teams")
	teams.GET("", s.listTeams)
	teams.POST("", s.createTeam)
	teams.GET("/top", s.getTopTeams)
	teams.GET("/mine", s.getOwnTeam)
	teams.GET("/:id", s.getTeam)
	teams.PUT("/:id", s.updateTeam)
	teams.DELETE("/:id", s.deleteTeam)
	teams.GET("/:id/members", s.getTeamMembers)
	teams.POST("/:id/join", s.joinTeam)
	teams.POST("/:id/leave", s.leaveTeam)
	teams.POST("/:id/image", s.uploadTeamImage)

	users := api.Group("/users")
	users.GET("", s.getUsersByIDs)
	users.GET("/me", s.getOwnProfile)
	users.PUT("/me", s.updateOwnProfile)
	users.POST("/me/avatar", s.uploadAvatar)
	users.GET("/:id", s.getProfile)

	goals := api.Group("/goals")
	goals.GET("/mine", s.getOwnGoal)
	goals.PUT("/mine", s.setOwnGoal)
	goals.GET("/mine/progress", s.getOwnGoalProgress)

	badges := api.Group("/badges")
	badges.GET("", s.listBadges)
	badges.GET("/mine", s.getOwnBadges)
	badges.POST("/evaluate", s.evaluateBadges)
	badges.POST("/:id/award", s.awardBadge)
}
