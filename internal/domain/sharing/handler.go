package sharing

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"plan-timeline/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PlanOwnerLookup avoids importing the plans package (breaks the cycle).
type PlanOwnerLookup interface {
	OwnerOf(ctx context.Context, planID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, planOwners PlanOwnerLookup) {
	// Owner actions scoped by plan
	r.Route("/plans/{planID}/grants", func(gr chi.Router) {
		gr.Post("/", inviteGrantHandler(svc, planOwners))
		gr.Get("/", listGrantsByPlanHandler(svc, planOwners))
	})

	// Grantee/owner actions scoped by grant id
	r.Route("/grants/{grantID}", func(gr chi.Router) {
		gr.Post("/accept", acceptGrantHandler(svc))
		gr.Post("/revoke", revokeGrantHandler(svc))
	})

	// Delegate: see invitations and grants shared with me
	r.Get("/me/grants", listMyGrantsHandler(svc))
}

type inviteGrantRequest struct {
	GranteeUserID string  `json:"grantee_user_id"`
	Scopes        []Scope `json:"scopes"`
}

type grantResponse struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"plan_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	GranteeUserID string     `json:"grantee_user_id"`
	Scopes        []Scope    `json:"scopes"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

// inviteGrantHandler godoc
// @Summary Share a plan
// @Description Invites another user to a plan with explicit scopes. Only the plan owner may invite. Empty scopes default to read-only (`plan:read`, `timeline:read`).
// @Tags sharing
// @Accept json
// @Produce json
// @Param planID path string true "Plan ID"
// @Param payload body inviteGrantRequest true "Grantee and scopes"
// @Success 201 {object} grantResponse
// @Failure 400 {string} string "invalid json / unknown scope"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/grants [post]
func inviteGrantHandler(svc *Service, planOwners PlanOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planID := chi.URLParam(r, "planID")
		ownerID, err := planOwners.OwnerOf(r.Context(), planID)
		if err != nil || strings.TrimSpace(ownerID) == "" {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req inviteGrantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.GranteeUserID) == "" {
			http.Error(w, "grantee_user_id required", http.StatusBadRequest)
			return
		}

		g, err := svc.Invite(r.Context(), InviteInput{
			PlanID:        planID,
			OwnerUserID:   claims.UserID,
			GranteeUserID: strings.TrimSpace(req.GranteeUserID),
			Scopes:        req.Scopes,
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

		writeJSON(w, http.StatusCreated, toGrantResponse(g))
	}
}

// listGrantsByPlanHandler godoc
// @Summary List a plan's grants
// @Tags sharing
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "plan not found"
// @Router /plans/{planID}/grants [get]
func listGrantsByPlanHandler(svc *Service, planOwners PlanOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		planID := chi.URLParam(r, "planID")
		ownerID, err := planOwners.OwnerOf(r.Context(), planID)
		if err != nil || strings.TrimSpace(ownerID) == "" {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByPlan(r.Context(), planID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// acceptGrantHandler godoc
// @Summary Accept a grant invitation
// @Tags sharing
// @Produce json
// @Param grantID path string true "Grant ID"
// @Success 200 {object} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "grant not found"
// @Failure 409 {string} string "grant revoked"
// @Router /grants/{grantID}/accept [post]
func acceptGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Accept(r.Context(), chi.URLParam(r, "grantID"), claims.UserID)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// revokeGrantHandler godoc
// @Summary Revoke a grant
// @Description Revocation takes effect immediately; the delegate loses access on their next request.
// @Tags sharing
// @Produce json
// @Param grantID path string true "Grant ID"
// @Success 200 {object} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "grant not found"
// @Router /grants/{grantID}/revoke [post]
func revokeGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Revoke(r.Context(), chi.URLParam(r, "grantID"), claims.UserID)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// listMyGrantsHandler godoc
// @Summary List grants shared with me
// @Tags sharing
// @Produce json
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/grants [get]
func listMyGrantsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByGrantee(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeGrantError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "grant not found", http.StatusNotFound)
	case ErrBadState:
		http.Error(w, "grant revoked", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toGrantResponse(g Grant) grantResponse {
	return grantResponse{
		ID:            g.ID,
		PlanID:        g.PlanID,
		OwnerUserID:   g.OwnerUserID,
		GranteeUserID: g.GranteeUserID,
		Scopes:        g.Scopes,
		Status:        g.Status,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
		RevokedAt:     g.RevokedAt,
	}
}

// writeJSON is duplicated across module handlers on purpose: no shared
// helper package until more modules need it.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
