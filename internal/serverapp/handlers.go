package serverapp

import (
	"encoding/json"
	"net/http"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/savegame"
)

func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view, err := a.engine.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *App) handleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	res, err := a.engine.Click(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type idRequest struct {
	ID string `json:"id"`
}

func (a *App) handleBuyBuilding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "id is required"})
		return
	}
	res, err := a.engine.PurchaseBuilding(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "id is required"})
		return
	}
	res, err := a.engine.PurchaseUpgrade(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) handleOpenCrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "id is required"})
		return
	}
	res, err := a.engine.OpenCrate(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) handleSetTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "malformed body"})
		return
	}
	if err := a.engine.SetActiveTeam(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "team": req.IDs})
}

func (a *App) handlePrestige(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	res, err := a.engine.PerformPrestige(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	a.save(r.Context())
	writeJSON(w, http.StatusOK, res)
}

// handleSync runs the offline reconciler, the explicit catch-up path for a
// returning session.
func (a *App) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	res, err := a.engine.ReconcileOffline(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if err := a.engine.Touch(ctx); err != nil {
		writeError(w, err)
		return
	}
	blob, err := savegame.Capture(ctx, a.stores, a.clock.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	encoded, err := savegame.Encode(blob)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "save": encoded})
}

func (a *App) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Save string `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Save == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "save is required"})
		return
	}

	blob, err := savegame.Decode(req.Save)
	if err != nil {
		// Existing state is untouched on a failed import.
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	ctx := r.Context()
	if err := savegame.Restore(ctx, a.stores, blob); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	if err := a.engine.Recompute(ctx); err != nil {
		writeError(w, err)
		return
	}
	a.save(ctx)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *App) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := a.engine.ResetAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	a.save(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
