package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/pflow-xyz/shpn/persist"
	"github.com/pflow-xyz/shpn/sim"
)

// stepOutcomeWire is the JSON-over-the-wire shape of a sim.StepOutcome:
// petri.Transition pointers are flattened to names so external tooling
// (the GUI/canvas layer explicitly out of scope for this module, spec §1)
// can consume the feed without linking against the petri package.
type stepOutcomeWire struct {
	Time            float64  `json:"time"`
	Fired           string   `json:"fired,omitempty"`
	Burst           int      `json:"burst,omitempty"`
	ContinuousFired []string `json:"continuous_fired,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

func toWire(out sim.StepOutcome) stepOutcomeWire {
	w := stepOutcomeWire{Time: out.Time, Burst: out.Burst}
	if out.FiredTransition != nil {
		w.Fired = out.FiredTransition.Name
	}
	for _, t := range out.ContinuousFired {
		w.ContinuousFired = append(w.ContinuousFired, t.Name)
	}
	for _, e := range out.Errors {
		w.Errors = append(w.Errors, e.Error())
	}
	return w
}

// hub fans StepOutcome frames out to every connected websocket client. It
// implements sim.Observer so the controller doesn't know websockets
// exist; that knowledge stays entirely in this command.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newHub() *hub { return &hub{clients: make(map[*websocket.Conn]bool)} }

func (h *hub) OnStep(out sim.StepOutcome) {
	wire := toWire(out)
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(wire); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// server wraps a Controller with the HTTP control surface: /step and
// /run mutate the simulation, /observe streams every StepOutcome.
type server struct {
	ctrl *sim.Controller
	cfg  runConfig
	hub  *hub
}

func newServer(ctrl *sim.Controller, cfg runConfig) *server {
	s := &server{ctrl: ctrl, cfg: cfg, hub: newHub()}
	ctrl.AddObserver(s.hub)
	return s
}

func (s *server) handleStep(w http.ResponseWriter, r *http.Request) {
	out := s.ctrl.Step(s.cfg.Dt)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toWire(out))
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	tEnd := s.cfg.Dt * 100
	if v := r.URL.Query().Get("time"); v != "" {
		fmt.Sscanf(v, "%f", &tEnd)
	}
	result := s.ctrl.RunUntil(tEnd)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"steps":      result.Steps,
		"deadlocked": result.Deadlocked,
		"time":       s.ctrl.Now(),
	})
}

func (s *server) handleObserve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/step", s.handleStep).Methods(http.MethodPost)
	r.HandleFunc("/run", s.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/observe", s.handleObserve).Methods(http.MethodGet)
	return r
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	configPath := fs.String("config", "", "Optional config file (yaml/toml/json) for dt/seed/policy")
	seed := fs.Int64("seed", 0, "PRNG seed override (0 = use config default)")
	policy := fs.String("policy", "", "Conflict policy override: random|priority|type|round_robin")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shpnsim serve [options] <model.shy>

Serve an HTTP/websocket control surface: POST /step, POST /run?time=N,
GET /observe (websocket feed of every StepOutcome).

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}

	rc, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		rc.Seed = *seed
	}
	if *policy != "" {
		rc.Policy = *policy
	}

	net, _, err := persist.LoadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	ctrl := sim.NewController(net, rc.toSimConfig())
	srv := newServer(ctrl, rc)

	fmt.Printf("listening on %s\n", *addr)
	return http.ListenAndServe(*addr, srv.router())
}
