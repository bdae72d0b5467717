// Package server exposes the engine's command and observation surface over
// HTTP. It is a presentation-layer collaborator: every handler goes through
// the controller's public API, never into the sampler.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Psychloor/TimeTracker/internal/proclist"
	"github.com/Psychloor/TimeTracker/internal/tracker"
)

// Router provides embeddable HTTP handlers for the tracking engine.
// Endpoints:
//
//	GET  {basePath}/status           current duration text, pid, paused, ended
//	GET  {basePath}/processes        query: filter=... (picker backend)
//	POST {basePath}/track/:pid       start (or switch to) a session
//	POST {basePath}/pause
//	POST {basePath}/resume
//	POST {basePath}/stop
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	ctrl     *tracker.Controller
	list     proclist.Lister
	basePath string
}

func NewRouter(ctrl *tracker.Controller, list proclist.Lister, basePath string) *Router {
	return &Router{ctrl: ctrl, list: list, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.GET("/processes", r.handleProcesses)
	group.POST("/track/:pid", r.handleTrack)
	group.POST("/pause", r.handlePause)
	group.POST("/resume", r.handleResume)
	group.POST("/stop", r.handleStop)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath string, ctrl *tracker.Controller, list proclist.Lister) (*http.Server, error) {
	r := NewRouter(ctrl, list, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type statusResp struct {
	Tracking        bool   `json:"tracking"`
	PID             int32  `json:"pid,omitempty"`
	Duration        string `json:"duration"`
	DurationSeconds int64  `json:"duration_seconds"`
	Paused          bool   `json:"paused"`
	Ended           bool   `json:"ended"`
}

func (r *Router) handleStatus(c *gin.Context) {
	snap := r.ctrl.Snapshot()
	c.JSON(http.StatusOK, statusResp{
		Tracking:        snap.Active,
		PID:             snap.PID,
		Duration:        snap.Text,
		DurationSeconds: int64(snap.Duration / time.Second),
		Paused:          r.ctrl.Paused(),
		Ended:           snap.Ended,
	})
}

func (r *Router) handleProcesses(c *gin.Context) {
	if r.list == nil {
		c.JSON(http.StatusNotImplemented, errorResp{Error: "process listing not available"})
		return
	}
	entries, err := r.list(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (r *Router) handleTrack(c *gin.Context) {
	pid, err := strconv.ParseInt(c.Param("pid"), 10, 32)
	if err != nil || pid <= 0 {
		c.JSON(http.StatusBadRequest, errorResp{Error: "pid must be a positive integer"})
		return
	}
	r.ctrl.StartSession(int32(pid))
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handlePause(c *gin.Context) {
	r.ctrl.Pause()
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handleResume(c *gin.Context) {
	r.ctrl.Resume()
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handleStop(c *gin.Context) {
	r.ctrl.Stop()
	c.JSON(http.StatusOK, okResp{OK: true})
}

func sanitizeBase(basePath string) string {
	if basePath == "" || basePath == "/" {
		return ""
	}
	if basePath[0] != '/' {
		basePath = "/" + basePath
	}
	for len(basePath) > 1 && basePath[len(basePath)-1] == '/' {
		basePath = basePath[:len(basePath)-1]
	}
	return basePath
}
