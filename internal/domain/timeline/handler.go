package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plan-timeline/internal/domain/plans"
	"plan-timeline/internal/domain/sharing"
	"plan-timeline/internal/middleware"
	"plan-timeline/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// CapabilityExportXLSX gates the spreadsheet export. JSON export is always
// available: it is the lossless interchange format, the workbook is a
// convenience rendering.
const CapabilityExportXLSX = "timeline:export:xlsx"

func RegisterRoutes(r chi.Router, tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service, caps capabilities.Resolver) {
	r.Route("/plans/{planID}/timeline", func(tr chi.Router) {
		tr.Post("/changes", recordChangeHandler(tracker, plansSvc, grantsSvc))
		tr.Get("/", listTimelineHandler(tracker, plansSvc, grantsSvc))
		tr.Get("/stats", timelineStatsHandler(tracker, plansSvc, grantsSvc))
		tr.Get("/version", currentVersionHandler(tracker, plansSvc, grantsSvc))

		tr.Post("/revert", revertHandler(tracker, plansSvc, grantsSvc))

		tr.Get("/export", exportHandler(tracker, plansSvc, grantsSvc))
		tr.Get("/export.xlsx", exportXLSXHandler(tracker, plansSvc, grantsSvc, caps))
		tr.Post("/import", importHandler(tracker, plansSvc, grantsSvc))
		tr.Delete("/", clearHandler(tracker, plansSvc, grantsSvc))
	})
}

// recordChangeRequest is the body for appending a new timeline entry.
// Snapshots are opaque whole-plan payloads captured by the client.
type recordChangeRequest struct {
	ActionType ActionType `json:"action_type" enums:"create,update,delete,revert,import"`
	EntityType EntityType `json:"entity_type" enums:"person,asset,income,commitment,event,scenario,plan"`
	EntityID   string     `json:"entity_id"`
	Summary    string     `json:"summary"`
	Details    string     `json:"details"`

	BeforeSnapshot json.RawMessage `json:"before_snapshot"`
	AfterSnapshot  json.RawMessage `json:"after_snapshot"`
	ScenarioID     string          `json:"scenario_id"`
}

// entryResponse is a timeline entry as returned by the API.
type entryResponse struct {
	ID         string     `json:"id"`
	Version    int        `json:"version"`
	Timestamp  time.Time  `json:"timestamp"`
	ActionType ActionType `json:"action_type"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id,omitempty"`
	Summary    string     `json:"summary"`
	Details    string     `json:"details"`

	BeforeSnapshot json.RawMessage `json:"before_snapshot,omitempty"`
	AfterSnapshot  json.RawMessage `json:"after_snapshot,omitempty"`
	ScenarioID     string          `json:"scenario_id,omitempty"`
}

type statsResponse struct {
	TotalChanges    int                `json:"total_changes"`
	ChangesByType   map[ActionType]int `json:"changes_by_type"`
	ChangesByEntity map[EntityType]int `json:"changes_by_entity"`
	OldestChange    *time.Time         `json:"oldest_change,omitempty"`
	NewestChange    *time.Time         `json:"newest_change,omitempty"`
}

type versionResponse struct {
	CurrentVersion int `json:"current_version"`
}

type revertRequest struct {
	TargetVersion int  `json:"target_version"`
	CreateBackup  bool `json:"create_backup"`
}

// authorizePlan resolves the plan and checks access: the owner always passes,
// a delegate needs an active grant carrying the wanted scope. On failure it
// writes the response and returns false.
func authorizePlan(w http.ResponseWriter, r *http.Request, plansSvc *plans.Service, grantsSvc *sharing.Service, want sharing.Scope) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	planID := chi.URLParam(r, "planID")
	p, err := plansSvc.GetByID(r.Context(), planID)
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return "", false
	}

	if p.OwnerUserID != claims.UserID {
		g, err := grantsSvc.GetActiveGrant(r.Context(), planID, claims.UserID)
		if err != nil || !sharing.HasScope(g, want) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return "", false
		}
	}

	return planID, true
}

// recordChangeHandler godoc
// @Summary Record a change
// @Description Appends a new entry to the plan's timeline with the next version number. The owner can always record. A delegate needs an active grant with scope `timeline:record`. Snapshots are stored verbatim.
// @Tags timeline
// @Accept json
// @Produce json
// @Param planID path string true "Plan ID"
// @Param payload body recordChangeRequest true "Change to record"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "invalid json / unknown action or entity type / summary required"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Failure 500 {string} string "storage error"
// @Router /plans/{planID}/timeline/changes [post]
func recordChangeHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRecord)
		if !ok {
			return
		}

		var req recordChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := tracker.RecordChange(r.Context(), planID, RecordInput{
			ActionType:     req.ActionType,
			EntityType:     req.EntityType,
			EntityID:       req.EntityID,
			Summary:        req.Summary,
			Details:        req.Details,
			BeforeSnapshot: Snapshot(req.BeforeSnapshot),
			AfterSnapshot:  Snapshot(req.AfterSnapshot),
			ScenarioID:     req.ScenarioID,
		})
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// listTimelineHandler godoc
// @Summary List timeline entries
// @Description Lists a plan's timeline entries, oldest first. Filters combine with AND. `limit` keeps the most recent N matches while preserving chronological order. Requires ownership or scope `timeline:read`.
// @Tags timeline
// @Produce json
// @Param planID path string true "Plan ID"
// @Param entity_type query string false "Only entries touching this entity type (person, asset, income, commitment, event, scenario, plan)"
// @Param action_type query string false "Only entries with this action type (create, update, delete, revert, import)"
// @Param q query string false "Case-insensitive search over summary and details"
// @Param limit query int false "Keep only the most recent N matches (1-500)"
// @Success 200 {array} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/timeline [get]
func listTimelineHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRead)
		if !ok {
			return
		}

		items, err := tracker.GetTimeline(r.Context(), planID, parseTimelineFilter(r))
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// timelineStatsHandler godoc
// @Summary Timeline statistics
// @Tags timeline
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {object} statsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/timeline/stats [get]
func timelineStatsHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRead)
		if !ok {
			return
		}

		stats, err := tracker.GetStatistics(r.Context(), planID)
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statsResponse{
			TotalChanges:    stats.TotalChanges,
			ChangesByType:   stats.ChangesByType,
			ChangesByEntity: stats.ChangesByEntity,
			OldestChange:    stats.OldestChange,
			NewestChange:    stats.NewestChange,
		})
	}
}

// currentVersionHandler godoc
// @Summary Current timeline version
// @Description Returns the version of the most recent entry, 0 for an empty timeline.
// @Tags timeline
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {object} versionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/timeline/version [get]
func currentVersionHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRead)
		if !ok {
			return
		}

		v, err := tracker.GetCurrentVersion(r.Context(), planID)
		if err != nil {
			writeTimelineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, versionResponse{CurrentVersion: v})
	}
}

// revertHandler godoc
// @Summary Revert to an earlier version
// @Description Appends a new revert entry restoring the state captured at target_version. History is never truncated: the revert itself gets the next version number and can be reverted again. Requires ownership or scope `timeline:revert`.
// @Tags timeline
// @Accept json
// @Produce json
// @Param planID path string true "Plan ID"
// @Param payload body revertRequest true "Target version; create_backup keeps the pre-revert state in the new entry"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan or version not found"
// @Failure 500 {string} string "storage error"
// @Router /plans/{planID}/timeline/revert [post]
func revertHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRevert)
		if !ok {
			return
		}

		var req revertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := tracker.RevertToVersion(r.Context(), planID, req.TargetVersion, RevertOptions{
			CreateBackup: req.CreateBackup,
		})
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// exportHandler godoc
// @Summary Export the timeline as JSON
// @Description Returns the full timeline document as canonical JSON text. Feeding this text back to the import endpoint restores the identical timeline.
// @Tags timeline
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {string} string "timeline document"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/timeline/export [get]
func exportHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRead)
		if !ok {
			return
		}

		text, err := tracker.ExportTimeline(r.Context(), planID)
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "timeline_"+planID+".json"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, text)
	}
}

// exportXLSXHandler godoc
// @Summary Export the timeline as a spreadsheet
// @Description Renders the timeline as an xlsx workbook (entries plus a summary sheet). Gated by the `timeline:export:xlsx` capability of the caller's subscription tier.
// @Tags timeline
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param planID path string true "Plan ID"
// @Success 200 {file} file "xlsx workbook"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden / not available on current tier"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/timeline/export.xlsx [get]
func exportXLSXHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineRead)
		if !ok {
			return
		}

		if caps != nil {
			claims, _ := middleware.GetClaims(r.Context())
			allowed, err := caps.Has(r.Context(), claims.UserID, CapabilityExportXLSX)
			if err != nil || !allowed {
				http.Error(w, "xlsx export not available on current tier", http.StatusForbidden)
				return
			}
		}

		p, err := plansSvc.GetByID(r.Context(), planID)
		if err != nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}

		st, err := tracker.ensureStore(r.Context(), planID)
		if err != nil {
			writeTimelineError(w, err)
			return
		}

		f, err := BuildWorkbook(st.Snapshot(), p.Name)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "timeline_"+planID+".xlsx"))
		w.WriteHeader(http.StatusOK)
		_ = f.Write(w)
	}
}

// importHandler godoc
// @Summary Import a timeline document
// @Description Replaces the plan's whole timeline with the posted document. Nothing is merged. A payload that does not parse or violates the version numbering is rejected and the existing timeline is left untouched. Requires ownership or scope `timeline:manage`.
// @Tags timeline
// @Accept json
// @Param planID path string true "Plan ID"
// @Param payload body string true "Timeline document as produced by the export endpoint"
// @Success 204 {string} string "imported"
// @Failure 400 {string} string "invalid document"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Failure 500 {string} string "storage error"
// @Router /plans/{planID}/timeline/import [post]
func importHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineManage)
		if !ok {
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20)) // 16MB cap
		if err != nil {
			http.Error(w, "cannot read body", http.StatusBadRequest)
			return
		}

		if err := tracker.ImportTimeline(r.Context(), planID, string(body)); err != nil {
			writeTimelineError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// clearHandler godoc
// @Summary Clear the timeline
// @Description Resets the plan's timeline to empty (version 0). Requires ownership or scope `timeline:manage`.
// @Tags timeline
// @Param planID path string true "Plan ID"
// @Success 204 {string} string "cleared"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Failure 500 {string} string "storage error"
// @Router /plans/{planID}/timeline [delete]
func clearHandler(tracker *Tracker, plansSvc *plans.Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := authorizePlan(w, r, plansSvc, grantsSvc, sharing.ScopeTimelineManage)
		if !ok {
			return
		}

		if err := tracker.ClearTimeline(r.Context(), planID); err != nil {
			writeTimelineError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseTimelineFilter(r *http.Request) Filter {
	f := Filter{}

	if v := strings.TrimSpace(r.URL.Query().Get("entity_type")); v != "" {
		f.EntityType = EntityType(v)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("action_type")); v != "" {
		f.ActionType = ActionType(v)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("q")); v != "" {
		f.SearchTerm = v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			f.Limit = n
		}
	}

	return f
}

func writeTimelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrStorage):
		http.Error(w, "storage error", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:             e.ID,
		Version:        e.Version,
		Timestamp:      e.Timestamp,
		ActionType:     e.ActionType,
		EntityType:     e.EntityType,
		EntityID:       e.EntityID,
		Summary:        e.Summary,
		Details:        e.Details,
		BeforeSnapshot: json.RawMessage(e.BeforeSnapshot),
		AfterSnapshot:  json.RawMessage(e.AfterSnapshot),
		ScenarioID:     e.ScenarioID,
	}
}

// writeJSON is intentionally duplicated across module handlers
// to avoid creating shared helper packages too early.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
