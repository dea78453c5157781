package adminhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"battlesim_server/internal/battle"
	"battlesim_server/internal/manager"
	"battlesim_server/pkg/dispatcher"
	"battlesim_server/pkg/duration"
	"battlesim_server/pkg/logger"
)

// routes :
// Registers the eight admin endpoints on the server's router, each
// wrapped in dispatcher.WithSafetyNet so that a panicking handler
// answers with a 500 instead of dropping the connection. Grouped
// in a single method the way the teacher groups a resource's routes,
// but each handler here is a thin direct closure over the manager
// rather than the teacher's EndpointDesc/DBFilter machinery: there is
// no generic row store behind these endpoints to query, so the extra
// layer would buy nothing.
func (s *Server) routes() {
	s.router.HandleFunc("health", dispatcher.WithSafetyNet(s.log, s.health())).Methods("GET")
	s.router.HandleFunc("battle/start", dispatcher.WithSafetyNet(s.log, s.startBattle())).Methods("POST")
	s.router.HandleFunc("battle/stop/[a-zA-Z0-9_-]+", dispatcher.WithSafetyNet(s.log, s.stopBattle())).Methods("POST")
	s.router.HandleFunc("battle/status/[a-zA-Z0-9_-]+", dispatcher.WithSafetyNet(s.log, s.battleStatus())).Methods("GET")
	s.router.HandleFunc("battle/reinforce/[a-zA-Z0-9_-]+", dispatcher.WithSafetyNet(s.log, s.reinforceBattle())).Methods("POST")
	s.router.HandleFunc("battle/positions/[a-zA-Z0-9_-]+", dispatcher.WithSafetyNet(s.log, s.updatePositions())).Methods("POST")
	s.router.HandleFunc("battle/retarget/[a-zA-Z0-9_-]+", dispatcher.WithSafetyNet(s.log, s.forceRetarget())).Methods("POST")
	s.router.HandleFunc("battles/active", dispatcher.WithSafetyNet(s.log, s.activeBattles())).Methods("GET")
}

// lastPathSegment :
// Extracts the trailing `:id` token from a request path such as
// `/battle/status/b-42`. The router already guaranteed the path
// matches the route it dispatched to, so this never fails for a
// handler reached through `routes`.
func lastPathSegment(r *http.Request) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// health :
// Reports that the process is alive along with how many battles it
// currently tracks.
func (s *Server) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:       "ok",
			ActiveCount:  len(s.mgr.ActiveBattles()),
			InstanceID:   s.instanceID,
			TickInterval: s.tickInterval,
			Uptime:       duration.NewDuration(s.mgr.Uptime()),
		})
	}
}

// startBattle :
// Handles `POST /battle/start`. Creates a new battle from the posted
// unit list and returns its initial status.
func (s *Server) startBattle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startBattleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}

		seed := req.Seed
		if seed == 0 {
			seed = s.defaultSeed
		}

		snap, err := s.mgr.StartBattle(req.BattleID, req.SystemID, req.Units, seed)
		if err != nil {
			s.writeManagerError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toStatusResponse(snap))
	}
}

// stopBattle :
// Handles `POST /battle/stop/:id`. Ends a live battle immediately.
func (s *Server) stopBattle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := lastPathSegment(r)

		if err := s.mgr.StopBattle(id); err != nil {
			s.writeManagerError(w, r, err)
			return
		}

		snap, _ := s.mgr.Status(id)
		writeJSON(w, http.StatusOK, toStatusResponse(snap))
	}
}

// battleStatus :
// Handles `GET /battle/status/:id`.
func (s *Server) battleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := lastPathSegment(r)

		snap, ok := s.mgr.Status(id)
		if !ok {
			s.writeError(w, r, http.StatusNotFound, manager.ErrBattleNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(snap))
	}
}

// activeBattles :
// Handles `GET /battles/active`.
func (s *Server) activeBattles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps := s.mgr.ActiveBattles()
		out := make([]statusResponse, 0, len(snaps))
		for _, snap := range snaps {
			out = append(out, toStatusResponse(snap))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// reinforceBattle :
// Handles `POST /battle/reinforce/:id`.
func (s *Server) reinforceBattle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := lastPathSegment(r)

		var req reinforceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}

		added, err := s.mgr.ReinforceBattle(id, req.Units)
		if err != nil {
			s.writeManagerError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"added": added})
	}
}

// updatePositions :
// Handles `POST /battle/positions/:id`.
func (s *Server) updatePositions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := lastPathSegment(r)

		var req updatePositionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}

		count, err := s.mgr.UpdatePositions(id, req.Positions)
		if err != nil {
			s.writeManagerError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"updated": count})
	}
}

// forceRetarget :
// Handles `POST /battle/retarget/:id`.
func (s *Server) forceRetarget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := lastPathSegment(r)

		if err := s.mgr.ForceRetarget(id); err != nil {
			s.writeManagerError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// toStatusResponse :
// Converts a manager.StatusSnapshot into its wire representation.
func toStatusResponse(snap manager.StatusSnapshot) statusResponse {
	resp := statusResponse{
		BattleID:   snap.BattleID,
		SystemID:   snap.SystemID,
		Tick:       snap.Tick,
		DurationMs: snap.DurationMs,
		Ended:      snap.Ended,
		UnitCount:  snap.UnitCount,
		Factions:   snap.Factions,
		IsIdle:     snap.IsIdle,
	}

	if snap.Results != nil {
		resp.Results = &results{
			Survivors:  snap.Results.Survivors,
			Casualties: snap.Results.Casualties,
			Victor:     snap.Results.Victor,
			Reason:     snap.Results.Reason,
			TotalTicks: snap.Results.TotalTicks,
			DurationMs: snap.Results.DurationMs,
		}
	}

	return resp
}

// writeJSON :
// Encodes v as the JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError :
// Writes a JSON error response and logs the failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Trace(logger.Warning, "adminhttp", err.Error()+" ("+r.URL.Path+")")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeManagerError :
// Maps a manager sentinel error onto its HTTP status code.
func (s *Server) writeManagerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, manager.ErrBattleNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, manager.ErrBattleEnded):
		s.writeError(w, r, http.StatusConflict, err)
	case errors.Is(err, manager.ErrDuplicateBattle):
		s.writeError(w, r, http.StatusConflict, err)
	case errors.Is(err, manager.ErrInvalidPayload), errors.Is(err, battle.ErrInvalidPayload):
		s.writeError(w, r, http.StatusBadRequest, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}
