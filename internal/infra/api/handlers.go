package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/usecase"
)

// ---- JSON plumbing ----

func respond(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidArgument):
		respond(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrSignatureInvalid):
		respond(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrPlanNotFound), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoActiveSubscription):
		respond(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrPaymentDeclined):
		respond(w, http.StatusPaymentRequired, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrActiveSubscriptionExists):
		respond(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		respond(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		respond(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	default:
		respond(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// ---- wire representations ----

type subscriptionView struct {
	ID            string   `json:"id"`
	Plan          string   `json:"plan"`
	Status        string   `json:"status"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Features      []string `json:"features"`
	DaysRemaining int      `json:"daysRemaining"`
}

func viewOf(s *model.Subscription, daysRemaining int) subscriptionView {
	return subscriptionView{
		ID:            s.ID,
		Plan:          s.PlanID,
		Status:        string(s.Status),
		StartDate:     s.StartDate.Format(time.RFC3339),
		EndDate:       s.EndDate.Format(time.RFC3339),
		Features:      s.Features,
		DaysRemaining: daysRemaining,
	}
}

type paymentView struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transactionId,omitempty"`
}

func paymentViewOf(p *model.Payment) paymentView {
	return paymentView{
		ID:            p.ID,
		Status:        string(p.Status),
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
	}
}

// ---- public handlers ----

func identityFromQuery(r *http.Request) (model.Identity, error) {
	if uid := r.URL.Query().Get("user_id"); uid != "" {
		return model.IdentityByUserID(uid), nil
	}
	if email := r.URL.Query().Get("email"); email != "" {
		return model.IdentityByEmail(email), nil
	}
	return model.Identity{}, domain.ErrValidation
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ent, err := s.entUC.GetActiveSubscription(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	if ent == nil {
		respond(w, http.StatusOK, struct {
			HasActiveSubscription bool `json:"hasActiveSubscription"`
		}{false})
		return
	}

	respond(w, http.StatusOK, struct {
		HasActiveSubscription bool             `json:"hasActiveSubscription"`
		Subscription          subscriptionView `json:"subscription"`
	}{true, viewOf(ent.Subscription, ent.DaysRemaining)})
}

func (s *Server) handleSubscriptionHistory(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, domain.ErrValidation)
		return
	}

	subs, err := s.entUC.History(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		days := 0
		if sub.Status == model.SubscriptionStatusActive {
			days = sub.DaysRemaining(now)
		}
		views = append(views, viewOf(sub, days))
	}
	respond(w, http.StatusOK, struct {
		Data []subscriptionView `json:"data"`
	}{views})
}

type createSubscriptionRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"fullName" validate:"required"`
	PlanID        string `json:"planId"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	res, err := s.subUC.CreateSubscription(r.Context(), usecase.CreateSubscriptionRequest{
		Email:         req.Email,
		FullName:      req.FullName,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, struct {
		Subscription subscriptionView `json:"subscription"`
		Payment      paymentView      `json:"payment"`
	}{viewOf(res.Subscription, res.Subscription.DaysRemaining(time.Now())), paymentViewOf(res.Payment)})
}

type cancelRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	var identity model.Identity
	if req.UserID != "" {
		identity = model.IdentityByUserID(req.UserID)
	} else {
		identity = model.IdentityByEmail(req.Email)
	}
	if err := s.subUC.Cancel(r.Context(), identity); err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Cancelled bool `json:"cancelled"`
	}{true})
}

type createOrderRequest struct {
	PlanID string `json:"planId" validate:"required"`
	UserID string `json:"userId"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	res, err := s.subUC.CreateOrder(r.Context(), usecase.CreateOrderRequest{
		Email:    req.Email,
		FullName: req.Name,
		PlanID:   req.PlanID,
		UserID:   req.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, struct {
		OrderID        string `json:"orderId"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		PaymentID      string `json:"paymentId"`
		SubscriptionID string `json:"subscriptionId"`
	}{res.OrderRef, res.Amount, res.Currency, res.PaymentID, res.SubscriptionID})
}

type verifyPaymentRequest struct {
	ProviderOrderID   string `json:"providerOrderId" validate:"required"`
	ProviderPaymentID string `json:"providerPaymentId" validate:"required"`
	ProviderSignature string `json:"providerSignature" validate:"required"`
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	res, err := s.subUC.VerifyPayment(r.Context(), usecase.VerifyPaymentRequest{
		OrderRef:          req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.ProviderSignature,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, struct {
		Subscription subscriptionView `json:"subscription"`
		Payment      paymentView      `json:"payment"`
	}{viewOf(res.Subscription, res.Subscription.DaysRemaining(time.Now())), paymentViewOf(res.Payment)})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Data []*model.Plan `json:"data"`
	}{plans})
}
