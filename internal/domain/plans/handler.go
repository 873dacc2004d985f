package plans

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"plan-timeline/internal/domain/sharing"
	"plan-timeline/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, grantsSvc *sharing.Service) {
	// Plans (owner)
	r.Route("/plans", func(pr chi.Router) {
		pr.Post("/", createPlanHandler(svc))
		pr.Get("/", listPlansHandler(svc))

		// Plan detail (owner or delegate with plan:read)
		pr.Get("/{planID}", getPlanHandler(svc, grantsSvc))

		// Update plan (owner or delegate with plan:edit)
		pr.Patch("/{planID}", updatePlanHandler(svc, grantsSvc))

		// Archive plan (owner only)
		pr.Post("/{planID}/archive", archivePlanHandler(svc))
	})

	// Plans shared with me (delegate)
	r.Get("/me/plans", listMySharedPlansHandler(svc, grantsSvc))
}

type createPlanRequest struct {
	Name        string `json:"name"`
	Currency    string `json:"currency"` // ISO 4217, defaults to USD
	Description string `json:"description"`
}

type planResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type updatePlanRequest struct {
	// Pointers for real PATCH semantics: nil = leave untouched.
	Name        *string `json:"name"`
	Currency    *string `json:"currency"`
	Description *string `json:"description"`
}

type sharedPlanResponse struct {
	Plan   planResponse       `json:"plan"`
	Grant  sharedGrantSummary `json:"grant"`
	Scopes []sharing.Scope    `json:"scopes"` // redundant but handy for the UI
}

type sharedGrantSummary struct {
	ID     string         `json:"id"`
	Status sharing.Status `json:"status"`
}

// createPlanHandler godoc
// @Summary Create a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param payload body createPlanRequest true "Plan data"
// @Success 201 {object} planResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /plans [post]
func createPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Currency:    req.Currency,
			Description: req.Description,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPlanResponse(p))
	}
}

// listPlansHandler godoc
// @Summary List my plans
// @Tags plans
// @Produce json
// @Success 200 {array} planResponse
// @Failure 401 {string} string "unauthorized"
// @Router /plans [get]
func listPlansHandler(svc *Service) http.HandlerFunc {
	// Owner-only (shared plans live under /me/plans)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPlanHandler godoc
// @Summary Get a plan
// @Tags plans
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {object} planResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID} [get]
func getPlanHandler(svc *Service, grantsSvc *sharing.Service) http.HandlerFunc {
	// Owner bypass, delegate requires plan:read
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planID := chi.URLParam(r, "planID")
		p, err := svc.GetByID(r.Context(), planID)
		if err != nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}

		// Owner bypass
		if p.OwnerUserID != claims.UserID {
			g, err := grantsSvc.GetActiveGrant(r.Context(), planID, claims.UserID)
			if err != nil || !sharing.HasScope(g, sharing.ScopePlanRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		writeJSON(w, http.StatusOK, toPlanResponse(p))
	}
}

// updatePlanHandler godoc
// @Summary Update a plan
// @Description Partial update: absent fields stay untouched. Owner bypass, delegate requires an active grant with `plan:edit`.
// @Tags plans
// @Accept json
// @Produce json
// @Param planID path string true "Plan ID"
// @Param payload body updatePlanRequest true "Fields to change"
// @Success 200 {object} planResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID} [patch]
func updatePlanHandler(svc *Service, grantsSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planID := chi.URLParam(r, "planID")
		current, err := svc.GetByID(r.Context(), planID)
		if err != nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}

		// Authorize: owner bypass, else active grant + scope
		if current.OwnerUserID != claims.UserID {
			g, err := grantsSvc.GetActiveGrant(r.Context(), planID, claims.UserID)
			if err != nil || !sharing.HasScope(g, sharing.ScopePlanEdit) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePlanRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Patch(r.Context(), planID, PatchInput{
			Name:        req.Name,
			Currency:    req.Currency,
			Description: req.Description,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPlanResponse(updated))
	}
}

// archivePlanHandler godoc
// @Summary Archive a plan
// @Description Archiving is idempotent and never deletes the plan's timeline.
// @Tags plans
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {object} planResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/archive [post]
func archivePlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planID := chi.URLParam(r, "planID")
		current, err := svc.GetByID(r.Context(), planID)
		if err != nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		if current.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		archived, err := svc.Archive(r.Context(), planID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPlanResponse(archived))
	}
}

// listMySharedPlansHandler godoc
// @Summary List plans shared with me
// @Tags plans
// @Produce json
// @Success 200 {array} sharedPlanResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/plans [get]
func listMySharedPlansHandler(svc *Service, grantsSvc *sharing.Service) http.HandlerFunc {
	// Returns plans shared with me (active grants carrying plan:read)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		grants, err := grantsSvc.ListByGrantee(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		seen := map[string]struct{}{}
		out := make([]sharedPlanResponse, 0)

		for _, g := range grants {
			if g.Status != sharing.StatusActive {
				continue
			}
			// Showing the plan at all requires plan:read.
			if !sharing.HasScope(g, sharing.ScopePlanRead) {
				continue
			}
			if _, ok := seen[g.PlanID]; ok {
				continue
			}
			seen[g.PlanID] = struct{}{}

			p, err := svc.GetByID(r.Context(), g.PlanID)
			if err != nil {
				// tolerate orphaned grants
				continue
			}

			out = append(out, sharedPlanResponse{
				Plan: toPlanResponse(p),
				Grant: sharedGrantSummary{
					ID:     g.ID,
					Status: g.Status,
				},
				Scopes: g.Scopes,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toPlanResponse(p Plan) planResponse {
	return planResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Currency:    p.Currency,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON is intentionally duplicated across module handlers (plans/sharing/
// timeline) to avoid creating shared helper packages too early.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
