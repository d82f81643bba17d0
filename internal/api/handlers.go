package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LachieKelly/casino/internal/bet"
	"github.com/LachieKelly/casino/internal/games"
	"github.com/LachieKelly/casino/internal/session"
	"github.com/LachieKelly/casino/internal/store"
)

// selectionJSON is the wire form of a game selection; exactly the fields
// relevant to the chosen game are read.
type selectionJSON struct {
	Tokens     []string `json:"tokens,omitempty"`
	Horse      *int     `json:"horse,omitempty"`
	Bug        *int     `json:"bug,omitempty"`
	Multiplier *int     `json:"multiplier,omitempty"`
}

// toDomain builds the typed selection for kind, or nil when the request
// carries none so the validator can reject it with the right reason.
func (sj selectionJSON) toDomain(kind games.Kind) games.Selection {
	switch kind {
	case games.KindRoulette:
		if len(sj.Tokens) == 0 {
			return nil
		}
		tokens := make([]games.Token, len(sj.Tokens))
		for i, t := range sj.Tokens {
			tokens[i] = games.Token(t)
		}
		return games.RouletteBets{Tokens: tokens}
	case games.KindHorse:
		if sj.Horse == nil {
			return nil
		}
		return games.HorsePick{Horse: *sj.Horse}
	case games.KindBugs:
		if sj.Bug == nil {
			return nil
		}
		return games.BugPick{Bug: *sj.Bug}
	case games.KindShell:
		if sj.Multiplier == nil {
			return nil
		}
		return games.ShellBet{Multiplier: *sj.Multiplier}
	}
	return games.NoSelection{}
}

type playRequest struct {
	Username  string        `json:"username"`
	Game      string        `json:"game"`
	Stake     string        `json:"stake"`
	Selection selectionJSON `json:"selection"`
}

type moveRequest struct {
	Username string `json:"username"`
	Action   string `json:"action"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Cup      int    `json:"cup"`
}

type roundResponse struct {
	Balance    string            `json:"balance"`
	State      string            `json:"state"`
	Events     []games.Event     `json:"events"`
	Resolution *games.Resolution `json:"resolution,omitempty"`
}

type gameInfo struct {
	Kind           games.Kind        `json:"kind"`
	NeedsSelection bool              `json:"needsSelection"`
	Horses         []games.HorseInfo `json:"horses,omitempty"`
	Bugs           []games.BugInfo   `json:"bugs,omitempty"`
	Multipliers    []int             `json:"multipliers,omitempty"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	infos := make([]gameInfo, 0, len(games.Kinds()))
	for _, kind := range games.Kinds() {
		info := gameInfo{Kind: kind, NeedsSelection: games.NeedsSelection(kind)}
		switch kind {
		case games.KindHorse:
			info.Horses = games.HorseRoster()
		case games.KindBugs:
			info.Bugs = games.BugRoster()
		case games.KindShell:
			info.Multipliers = games.ShellMultipliers()
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"games": infos})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Game     string `json:"game"`
	}
	if !s.decode(w, r, &req) || !s.requireUser(w, r, req.Username) {
		return
	}
	ctrl := s.registry.Get(r.Context(), req.Username)
	if err := ctrl.Select(games.Kind(req.Game)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"game":    req.Game,
		"balance": ctrl.Balance().String(),
	})
}

// handlePlay validates and places a wager, then drives the round with
// timer ticks until it settles or stops to wait for player input.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if !s.decode(w, r, &req) || !s.requireUser(w, r, req.Username) {
		return
	}
	ctx := r.Context()
	ctrl := s.registry.Get(ctx, req.Username)

	kind := games.Kind(req.Game)
	if ctrl.Game() != kind {
		if err := ctrl.Select(kind); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	events, err := ctrl.Place(ctx, req.Stake, req.Selection.toDomain(kind))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if stake, err := bet.ParseStake(req.Stake); err == nil {
		f, _ := stake.Float64()
		s.metrics.RecordWager(kind, f)
	}
	more, err := ctrl.Run(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	events = append(events, more...)
	s.respondRound(w, ctrl, events)
}

// handleMove routes one player input to the active round.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) || !s.requireUser(w, r, req.Username) {
		return
	}
	ctx := r.Context()
	ctrl := s.registry.Get(ctx, req.Username)

	var in games.Input
	switch req.Action {
	case "tick":
		in = games.Tick{}
	case "hit":
		in = games.Hit{}
	case "stand":
		in = games.Stand{}
	case "reveal":
		in = games.Reveal{Row: req.Row, Col: req.Col}
	case "pick":
		in = games.Pick{Cup: req.Cup}
	default:
		s.writeJSON(w, http.StatusBadRequest,
			newAPIError(r, ErrTypeValidation, "unknown action "+strconv.Quote(req.Action), nil))
		return
	}

	events, err := ctrl.Move(ctx, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondRound(w, ctrl, events)
}

// respondRound builds the shared round response and records metrics when
// the observed events include the settling of a round.
func (s *Server) respondRound(w http.ResponseWriter, ctrl *session.Controller, events []games.Event) {
	resp := roundResponse{
		Balance: ctrl.Balance().String(),
		State:   "awaiting_input",
		Events:  events,
	}
	settledNow := false
	for _, ev := range events {
		if ev.Kind == games.EventSettled {
			settledNow = true
			break
		}
	}
	if settledNow {
		if res, ok := ctrl.Resolution(); ok {
			resp.State = "settled"
			resp.Resolution = &res
			s.metrics.RecordRound(ctrl.Game(), res)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if !s.requireUser(w, r, username) {
		return
	}
	ctrl := s.registry.Get(r.Context(), username)
	balance := ctrl.SyncBalance(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": username,
		"balance":  balance.String(),
	})
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSON(w, http.StatusNotFound,
			newAPIError(r, ErrTypeNotFound, "round journal disabled", nil))
		return
	}
	q := r.URL.Query()
	query := store.RoundsQuery{
		Username: q.Get("username"),
		Game:     q.Get("game"),
	}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.PerPage, _ = strconv.Atoi(q.Get("perPage"))

	list, err := s.db.ListRounds(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSON(w, http.StatusNotFound,
			newAPIError(r, ErrTypeNotFound, "round journal disabled", nil))
		return
	}
	username := r.URL.Query().Get("username")
	if !s.requireUser(w, r, username) {
		return
	}
	summary, err := s.db.UserSummary(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest,
			newAPIError(r, ErrTypeValidation, "malformed JSON body", nil))
		return false
	}
	return true
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request, username string) bool {
	if username == "" {
		s.writeJSON(w, http.StatusBadRequest,
			newAPIError(r, ErrTypeValidation, "username is required", nil))
		return false
	}
	return true
}
