package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessText is the body of GET /
const LivenessText = "Bot is running!"

// SetupRoutes registers the liveness route and the API
func SetupRoutes(s *Server) {
	s.GET("/", livenessHandler)

	api := s.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/feed", s.feedHandler)
	}
}

func livenessHandler(c *gin.Context) {
	c.String(http.StatusOK, LivenessText)
}

// statusHandler returns the bot and database status
func (s *Server) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := s.db.GetStatus()

	bot := gin.H{"isOnline": false}
	if s.bot != nil {
		bot = gin.H{
			"isOnline": s.bot.IsReady(),
			"guilds":   s.bot.GuildCount(),
			"uptime":   int64(s.bot.Uptime().Seconds()),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": bot,
		"feed": gin.H{
			"subscribers": s.feed.Subscribers(),
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "BeamBot Go is running",
	})
}
