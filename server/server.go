// Package server exposes one game session over HTTP. Commands come in as
// JSON posts; observers follow the session over a websocket snapshot stream.
package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/engine/save"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/types"
)

// Server owns one engine instance. The engine is single-writer, so every
// dispatch, tick, and store read runs under the mutex. Backend saves run
// outside it against a captured snapshot.
type Server struct {
	mu  sync.Mutex
	eng *engine.Engine
	gw  *persist.Gateway

	router *gin.Engine
	hub    *hub
}

// New builds a server around an engine and its persistence gateway.
func New(eng *engine.Engine, gw *persist.Gateway) *Server {
	s := &Server{
		eng: eng,
		gw:  gw,
		hub: newHub(),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/state", s.handleState)
	r.POST("/api/command", s.handleCommand)
	r.POST("/api/save", s.handleSave)
	r.POST("/api/load", s.handleLoad)
	r.GET("/ws", s.handleWS)

	s.router = r
	return s
}

// Handler exposes the route tree for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the pacing loop and serves until the listener fails.
func (s *Server) Run(addr string) error {
	go s.tickLoop()
	log.Printf("server: listening on %s", addr)
	return s.router.Run(addr)
}

// tickLoop advances pending phase transitions on wall time and pushes a
// snapshot to observers whenever one fires.
func (s *Server) tickLoop() {
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	for now := range t.C {
		s.mu.Lock()
		res := s.eng.Tick(now)
		var view stateView
		fired := len(res.Events) > 0 || len(res.Output) > 0
		if fired {
			view = s.viewLocked(res)
		}
		s.mu.Unlock()
		if fired {
			s.hub.broadcast(view)
		}
	}
}

// stateView is the wire shape of one session snapshot.
type stateView struct {
	Mode      types.Mode         `json:"mode"`
	Player    types.Character    `json:"player"`
	Inventory []types.Item       `json:"inventory"`
	MapID     string             `json:"map_id"`
	Position  types.Position     `json:"position"`
	Battle    *types.BattleState `json:"battle,omitempty"`
	Pending   bool               `json:"pending"`
	Events    []types.Event      `json:"events,omitempty"`
	Output    []string           `json:"output,omitempty"`
}

// viewLocked snapshots the store. Caller holds s.mu.
func (s *Server) viewLocked(res types.Result) stateView {
	st := s.eng.Store
	v := stateView{
		Mode:      st.Mode,
		Player:    st.Player,
		Inventory: append([]types.Item{}, st.Inventory...),
		MapID:     st.CurrentMapID,
		Position:  st.Pos,
		Pending:   s.eng.Pending(),
		Events:    res.Events,
		Output:    res.Output,
	}
	if st.Battle != nil {
		b := *st.Battle
		v.Battle = &b
	}
	return v
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleState(c *gin.Context) {
	s.mu.Lock()
	view := s.viewLocked(types.Result{})
	s.mu.Unlock()
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleCommand(c *gin.Context) {
	var cmd types.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch cmd.Type {
	case types.CmdMove, types.CmdInteract, types.CmdBattle, types.CmdAnswer, types.CmdEquip:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command type"})
		return
	}

	s.mu.Lock()
	res := s.eng.Dispatch(cmd, time.Now())
	view := s.viewLocked(res)
	s.mu.Unlock()

	s.hub.broadcast(view)
	c.JSON(http.StatusOK, view)
}

// handleSave captures the snapshot under the engine mutex but runs the
// backend write without it, so a slow save never stalls gameplay.
func (s *Server) handleSave(c *gin.Context) {
	s.mu.Lock()
	sn := save.Capture(s.eng.Store)
	s.mu.Unlock()

	if err := s.gw.SaveSnapshot(c.Request.Context(), sn); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "save failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (s *Server) handleLoad(c *gin.Context) {
	s.mu.Lock()
	found := s.gw.Load(c.Request.Context(), s.eng.Store)
	view := s.viewLocked(types.Result{})
	s.mu.Unlock()

	s.hub.broadcast(view)
	c.JSON(http.StatusOK, gin.H{"found": found, "state": view})
}
