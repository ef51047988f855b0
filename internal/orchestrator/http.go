package orchestrator

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"

	"github.com/1homsi/depscope/internal/logging"
	"github.com/1homsi/depscope/internal/model"
)

// Server is the small local HTTP surface exposed over an Orchestrator
// (spec §1, §6). It carries no auth, browser launch, or process spawning
// beyond the crawler invocation already owned by Orchestrator — those
// desktop-controller concerns are explicitly out of scope (spec §1).
type Server struct {
	Orch      *Orchestrator
	Profiles  []model.Profile
	KeepRules []*regexp.Regexp
}

// NewServer wraps orch in an HTTP surface with the given default
// classification profiles and keep rules.
func NewServer(orch *Orchestrator, profiles []model.Profile, keepRules []*regexp.Regexp) *Server {
	return &Server{Orch: orch, Profiles: profiles, KeepRules: keepRules}
}

// Mux builds the request router: GET /graph (read current merged+classified
// graph), POST /crawl (run crawlers, merge, respond with the graph), POST
// /reset (clear the graph state).
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/crawl", s.handleCrawl)
	mux.HandleFunc("/reset", s.handleReset)
	return mux
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := s.Orch.Classify(s.Profiles, s.KeepRules)
	w.Header().Set("Content-Type", "application/json")
	if err := EmitMerged(w, s.Orch.State, result); err != nil {
		logging.Errorf("serve /graph: %v", err)
	}
}

type crawlRequest struct {
	Languages []string `json:"languages"`
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req crawlRequest
	body, _ := io.ReadAll(r.Body)
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if len(req.Languages) == 0 {
		req.Languages = SupportedLanguages()
	}

	if err := s.Orch.RunCrawl(r.Context(), req.Languages); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := s.Orch.Classify(s.Profiles, s.KeepRules)
	w.Header().Set("Content-Type", "application/json")
	if err := EmitMerged(w, s.Orch.State, result); err != nil {
		logging.Errorf("serve /crawl: %v", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Orch.State.Reset()
	w.WriteHeader(http.StatusNoContent)
}
