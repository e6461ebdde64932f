// Package web provides the HTTP server: liveness, status API and the
// moderation event feed. It uses Gin.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/database"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// sweepThreshold is how many tracked IPs trigger a cleanup of idle ones
const sweepThreshold = 1024

// BotStatus is the part of the Discord client the API reports on
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Uptime() time.Duration
}

// Server represents the web server
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	webhookURL string
	limiter    *ratelimit.KeyedLimiter

	bot       BotStatus
	db        *database.Database
	feed      *modlog.Bus
	feedToken string
}

var (
	server *Server
)

// Init initializes the global web server
func Init(webhookURL string) *Server {
	server = NewServer(webhookURL)
	return server
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(webhookURL string) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		webhookURL: webhookURL,
		// 100 requests per minute per IP
		limiter: ratelimit.New(rate.Every(600*time.Millisecond), 100, 10*time.Minute),
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	s.setupErrorHandlers()

	return s
}

// WithBot sets the client reported by the status routes
func (s *Server) WithBot(bot BotStatus) *Server {
	s.bot = bot
	return s
}

// WithDatabase sets the database reported by the status routes
func (s *Server) WithDatabase(db *database.Database) *Server {
	s.db = db
	return s
}

// WithFeed sets the bus streamed on /api/feed. Clients must present
// token; an empty token leaves the feed disabled.
func (s *Server) WithFeed(feed *modlog.Bus, token string) *Server {
	if token == "" {
		return s
	}
	s.feed = feed
	s.feedToken = token
	return s
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs incoming requests and forwards them to the webhook
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Debug(fmt.Sprintf("%s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")

		if c.Request.URL.Path != "/" {
			go s.sendLogToWebhook(c.Request.Method, c.Request.URL.Path, c.ClientIP())
		}

		c.Next()
	}
}

// sendLogToWebhook sends a request summary to the Discord webhook
func (s *Server) sendLogToWebhook(method, path, ip string) {
	if s.webhookURL == "" {
		return
	}

	embed := map[string]interface{}{
		"title":       fmt.Sprintf("💫 | New %s request to the web server", method),
		"description": fmt.Sprintf("> **Path:** `%s`\n> **IP:** `%s`", path, ip),
		"color":       0x00AE86,
		"timestamp":   time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// rateLimitMiddleware limits requests per client IP
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter.Len() > sweepThreshold {
			s.limiter.Sweep()
		}
		if !s.limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested route does not exist.",
			"status":  404,
		})
	})

	s.engine.HandleMethodNotAllowed = true
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "The HTTP method is not allowed for this route.",
			"status":  405,
		})
	})
}

// Start serves until Shutdown is called
func (s *Server) Start(port string) error {
	s.listen(port)
	return s.serve()
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	s.listen(port)
	go func() {
		if err := s.serve(); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

func (s *Server) listen(port string) {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Listening on http://localhost:%s", port), "WebServer")
}

func (s *Server) serve() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits up to timeout for open ones
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
