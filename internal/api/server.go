// Package api provides the REST and WebSocket solve API.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sjtug/cerberus-solver/internal/config"
	"github.com/sjtug/cerberus-solver/internal/newrelic"
	"github.com/sjtug/cerberus-solver/internal/notify"
	"github.com/sjtug/cerberus-solver/internal/solver"
	"github.com/sjtug/cerberus-solver/internal/storage"
	"github.com/sjtug/cerberus-solver/internal/util"
	"github.com/sjtug/cerberus-solver/internal/verify"
	"github.com/sjtug/cerberus-solver/internal/worker"
)

// Server is the API server
type Server struct {
	cfg      *config.Config
	pool     *worker.Pool
	redis    *storage.RedisClient
	notifier *notify.Notifier
	nrAgent  *newrelic.Agent
	router   *gin.Engine
	server   *http.Server

	// Stats cache
	statsCacheMu   sync.RWMutex
	statsCache     *StatsResponse
	statsCacheTime time.Time
}

// SolveRequest is the /api/solve request body
type SolveRequest struct {
	Prefix     string `json:"prefix"`
	Difficulty uint8  `json:"difficulty" binding:"required"`
}

// SolveResponse is the /api/solve response
type SolveResponse struct {
	Hash       string `json:"hash"`
	Data       string `json:"data"`
	Difficulty uint8  `json:"difficulty"`
	Nonce      uint64 `json:"nonce"`
	Attempts   uint64 `json:"attempts"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// StatsResponse is the /api/stats response
type StatsResponse struct {
	Threads  uint32              `json:"threads"`
	Kernel   string              `json:"kernel"`
	Attempts uint64              `json:"attempts"`
	Lifetime *storage.Stats      `json:"lifetime,omitempty"`
	Recent   []*storage.Solution `json:"recent,omitempty"`
	Now      int64               `json:"now"`
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, pool *worker.Pool, redis *storage.RedisClient, notifier *notify.Notifier, nrAgent *newrelic.Agent) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		pool:     pool,
		redis:    redis,
		notifier: notifier,
		nrAgent:  nrAgent,
		router:   router,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures API endpoints
func (s *Server) setupRoutes() {
	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		origin := "*"
		if len(s.cfg.API.CORSOrigins) > 0 {
			origin = strings.Join(s.cfg.API.CORSOrigins, ", ")
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleStats)
		api.POST("/solve", s.handleSolve)
		api.GET("/solve/ws", s.handleSolveWS)
	}
}

// Start begins the API server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.cfg.API.Bind,
		Handler: s.router,
	}

	util.Infof("API server listening on %s", s.cfg.API.Bind)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Errorf("API server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts down the API server
func (s *Server) Stop() error {
	if s.server != nil {
		util.Info("Stopping API server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"threads": s.pool.Threads(),
	})
}

// solve runs one search on the pool and handles the bookkeeping shared by
// the REST and WebSocket paths.
func (s *Server) solve(ctx context.Context, prefix string, difficulty uint8, onProgress func(uint32)) (*SolveResponse, error) {
	if difficulty < s.cfg.Solver.MinDifficulty || difficulty > s.cfg.Solver.MaxDifficulty {
		return nil, solver.ErrInvalidDifficulty
	}

	if s.cfg.Solver.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Solver.SolveTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.pool.Solve(ctx, []byte(prefix), difficulty, onProgress)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if s.cfg.Solver.Verify {
		if err := verify.Solution(prefix, res.Nonce, res.Hash, difficulty); err != nil {
			util.Errorf("Solution failed verification: %v", err)
			return nil, err
		}
	}

	sol := &storage.Solution{
		Prefix:     prefix,
		Nonce:      res.Nonce,
		Hash:       res.HashHex,
		Difficulty: difficulty,
		Attempts:   res.Attempts,
		ElapsedMs:  elapsed.Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}

	if s.redis != nil {
		if err := s.redis.WriteSolution(sol); err != nil {
			util.Errorf("Failed to store solution: %v", err)
		}
		if err := s.redis.RecordAttempts(res.Attempts); err != nil {
			util.Errorf("Failed to record attempts: %v", err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifySolutionFound(sol)
	}
	if s.nrAgent != nil {
		s.nrAgent.RecordSolve(difficulty, res.Attempts, elapsed)
	}

	return &SolveResponse{
		Hash:       res.HashHex,
		Data:       res.Attempt,
		Difficulty: difficulty,
		Nonce:      res.Nonce,
		Attempts:   res.Attempts,
		ElapsedMs:  elapsed.Milliseconds(),
	}, nil
}

func (s *Server) handleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.solve(c.Request.Context(), req.Prefix, req.Difficulty, nil)
	if err != nil {
		status := http.StatusInternalServerError
		switch err {
		case solver.ErrInvalidDifficulty, solver.ErrPrefixTooLong:
			status = http.StatusBadRequest
		case context.DeadlineExceeded:
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	s.statsCacheMu.RLock()
	if s.statsCache != nil && time.Since(s.statsCacheTime) < s.cfg.API.StatsCache {
		cached := s.statsCache
		s.statsCacheMu.RUnlock()
		c.JSON(http.StatusOK, cached)
		return
	}
	s.statsCacheMu.RUnlock()

	resp := &StatsResponse{
		Threads:  s.pool.Threads(),
		Kernel:   s.cfg.Solver.Kernel,
		Attempts: s.pool.Attempts(),
		Now:      time.Now().Unix(),
	}

	if s.redis != nil {
		if lifetime, err := s.redis.GetStats(); err == nil {
			resp.Lifetime = lifetime
		} else {
			util.Errorf("Failed to load lifetime stats: %v", err)
		}
		if recent, err := s.redis.GetRecentSolutions(10); err == nil {
			resp.Recent = recent
		}
	}

	s.statsCacheMu.Lock()
	s.statsCache = resp
	s.statsCacheTime = time.Now()
	s.statsCacheMu.Unlock()

	c.JSON(http.StatusOK, resp)
}
