package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/infra/logging"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPwd)) != 1 {
		respond(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}
	token, err := s.auth.Mint()
	if err != nil {
		s.log.Error().Err(err).Msg("mint admin token")
		writeError(w, domain.ErrOperationFailed)
		return
	}
	respond(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{token})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	users, byStatus, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	week, month, year, err := s.statsUC.Revenue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	statuses := make(map[string]int, len(byStatus))
	for k, v := range byStatus {
		statuses[string(k)] = v
	}

	respond(w, http.StatusOK, struct {
		Users         int            `json:"users"`
		Subscriptions map[string]int `json:"subscriptions"`
		Revenue       struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue"`
	}{
		Users:         users,
		Subscriptions: statuses,
		Revenue: struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		}{week, month, year},
	})
}

type createPlanRequest struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Price        int64    `json:"price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"required,len=3"`
	DurationDays int      `json:"durationDays" validate:"gt=0"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
}

func (s *Server) handleAdminCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	plan, err := s.planUC.Create(r.Context(), req.ID, req.Name, req.Price, req.Currency, req.DurationDays, req.Features, req.Popular)
	if err != nil {
		writeError(w, err)
		return
	}
	logging.With(r.Context(), s.log).Info().Str("plan_id", plan.ID).Msg("plan created")
	respond(w, http.StatusCreated, plan)
}

func (s *Server) handleAdminDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := s.planUC.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logging.With(r.Context(), s.log).Info().Str("plan_id", id).Msg("plan deleted")
	w.WriteHeader(http.StatusNoContent)
}
