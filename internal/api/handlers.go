package api

import (
	"encoding/json"
	"log"
	"net/http"

	"gridrush/internal/game"
	"gridrush/internal/render"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Stats())
}

func (h *routerHandlers) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, "run history disabled", http.StatusNotFound)
		return
	}
	runs, err := h.runs.RecentRuns(h.runsLimit)
	if err != nil {
		log.Printf("❌ Run history query failed: %v", err)
		writeError(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func (h *routerHandlers) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.SetPlayerIntent(game.Dir{X: req.X, Y: req.Y})
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleFire(w http.ResponseWriter, r *http.Request) {
	id, err := h.engine.Fire()
	if err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]interface{}{"success": true, "projectile": id})
}

func (h *routerHandlers) handleDebugFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, h.engine.Grid(), h.engine.Snapshot()); err != nil {
		log.Printf("❌ Debug frame render failed: %v", err)
	}
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
