package dashboard

import (
	"context"
	"html/template"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"homewatt/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server renders the dashboard and pushes live readings to connected
// browsers. It polls the API on a fixed interval and simply replaces its
// snapshot with the latest successful response; between polls it simulates
// live readings per breaker the way the original browser app did.
type Server struct {
	mux       *http.ServeMux
	tmpl      *template.Template
	api       *Client
	userID    int64
	interval  time.Duration
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan any

	snapshotMu sync.RWMutex
	snapshot   Snapshot
}

// Snapshot is the rendered dashboard state.
type Snapshot struct {
	Breakers    []domain.BreakerWithLimit `json:"breakers"`
	Summary     domain.PowerSummary       `json:"summary"`
	Projections domain.Projections        `json:"projections"`
	Alerts      []domain.Alert            `json:"alerts"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func New(api *Client, userID int64, refreshEvery time.Duration) *Server {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"watts": func(p *float64) string {
			if p == nil {
				return ""
			}
			return strconv.FormatFloat(*p, 'f', 0, 64)
		},
	}
	tmpl := template.Must(template.New("base").Funcs(funcMap).ParseGlob("web/templates/*.html"))

	s := &Server{
		mux:       http.NewServeMux(),
		tmpl:      tmpl,
		api:       api,
		userID:    userID,
		interval:  refreshEvery,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
	}

	s.routes()
	go s.handleBroadcast()
	go s.periodicUpdate()
	go s.simulateLiveReadings()

	return s
}

func (s *Server) routes() {
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/breakers/toggle", s.handleToggle)
	s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/dashboard" {
		http.NotFound(w, r)
		return
	}
	s.snapshotMu.RLock()
	snap := s.snapshot
	s.snapshotMu.RUnlock()

	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", snap); err != nil {
		log.Error().Err(err).Msg("template render failed")
	}
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	breakerID, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad breaker id", http.StatusBadRequest)
		return
	}
	status := r.FormValue("status")
	if status != "On" && status != "Off" {
		http.Error(w, "bad status", http.StatusBadRequest)
		return
	}

	if err := s.api.ToggleBreaker(r.Context(), breakerID, status); err != nil {
		log.Error().Err(err).Int64("breaker_id", breakerID).Msg("toggle failed")
		http.Error(w, "toggle failed", http.StatusBadGateway)
		return
	}
	s.refresh(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.snapshotMu.RLock()
	snap := s.snapshot
	s.snapshotMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.snapshotMu.RLock()
	snap := s.snapshot
	s.snapshotMu.RUnlock()

	// The broadcast goroutine is the connection's only writer once it is
	// registered, so the init snapshot must go out first.
	if err := conn.WriteJSON(map[string]any{"type": "init", "data": snap}); err != nil {
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleBroadcast() {
	for msg := range s.broadcast {
		s.clientsMu.RLock()
		for conn := range s.clients {
			if err := conn.WriteJSON(msg); err != nil {
				log.Error().Err(err).Msg("websocket write failed")
			}
		}
		s.clientsMu.RUnlock()
	}
}

func (s *Server) periodicUpdate() {
	s.refresh(context.Background())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.refresh(context.Background())
	}
}

// refresh replaces the snapshot with the latest successful responses.
// Failed polls keep the previous state; overlapping requests are harmless
// because the newest write wins.
func (s *Server) refresh(ctx context.Context) {
	snap := Snapshot{UpdatedAt: time.Now()}

	breakers, err := s.api.Breakers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("breaker poll failed")
		return
	}
	snap.Breakers = breakers

	if data, err := s.api.PowerData(ctx, s.userID); err == nil {
		snap.Summary = data.Summary
	}
	if proj, err := s.api.Projections(ctx, s.userID); err == nil {
		snap.Projections = *proj
	}
	if alerts, err := s.api.Alerts(ctx); err == nil {
		snap.Alerts = alerts
	}

	s.snapshotMu.Lock()
	s.snapshot = snap
	s.snapshotMu.Unlock()

	s.broadcast <- map[string]any{"type": "snapshot", "data": snap}
}

// simulateLiveReadings fabricates a small reading wobble per breaker every
// two seconds so the cards feel live between polls.
func (s *Server) simulateLiveReadings() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.snapshotMu.RLock()
		breakers := s.snapshot.Breakers
		s.snapshotMu.RUnlock()

		readings := make([]map[string]any, 0, len(breakers))
		for _, b := range breakers {
			if b.Status != "On" {
				continue
			}
			power := b.PowerLimit * (0.2 + rand.Float64()*0.5)
			readings = append(readings, map[string]any{
				"breaker_id": b.ID,
				"power":      power,
				"voltage":    230 + rand.Float64()*4 - 2,
			})
		}
		if len(readings) > 0 {
			s.broadcast <- map[string]any{"type": "live", "data": readings}
		}
	}
}

func toJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return template.JS(b)
}
