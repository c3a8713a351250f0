package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/expense"
	"fintrack/internal/domain/ledger"
	"fintrack/internal/shared/cache"
	"fintrack/internal/shared/middleware"
)

// Swapped out in tests.
var timeNow = time.Now

type FinanceHandler struct {
	ledger   *ledger.Service
	expenses expense.Repository
	cache    *cache.Cache
	log      zerolog.Logger
}

func NewFinanceHandler(ledgerSvc *ledger.Service, expenses expense.Repository, c *cache.Cache, log zerolog.Logger) *FinanceHandler {
	return &FinanceHandler{ledger: ledgerSvc, expenses: expenses, cache: c, log: log}
}

// Request/Response DTOs

type createGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type setIncomeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateGoal creates a saving goal for the authenticated user.
func (h *FinanceHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.ledger.CreateGoal(r.Context(), ledger.CreateGoalParams{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.InvalidateUser(userID)
	respondJSON(w, http.StatusCreated, goal)
}

// ListGoals returns the authenticated user's goals.
func (h *FinanceHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	goals, err := h.ledger.ListGoals(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list goals")
		respondError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	if goals == nil {
		goals = []*ledger.Goal{}
	}

	respondJSON(w, http.StatusOK, goals)
}

// Contribute applies a contribution to a goal.
func (h *FinanceHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	goalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid goal ID")
		return
	}

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.ledger.ApplyGoalContribution(r.Context(), goalID, userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGoalNotFound):
			respondError(w, http.StatusNotFound, "Goal not found")
		case errors.Is(err, ledger.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Amount must not be negative")
		case errors.Is(err, ledger.ErrContributionSplit):
			// The goal total moved but the monthly entry didn't.
			h.log.Error().Err(err).Int64("goal_id", goalID).Msg("contribution left aggregates out of sync")
			respondError(w, http.StatusInternalServerError, "Contribution partially applied")
		default:
			h.log.Error().Err(err).Int64("goal_id", goalID).Msg("contribution failed")
			respondError(w, http.StatusInternalServerError, "Failed to apply contribution")
		}
		return
	}

	h.cache.InvalidateUser(userID)
	respondJSON(w, http.StatusOK, entry)
}

// MonthlyContribution returns the user's contribution total for the current month.
func (h *FinanceHandler) MonthlyContribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	total, err := h.ledger.MonthlyContribution(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to get monthly contribution")
		respondError(w, http.StatusInternalServerError, "Failed to get monthly contribution")
		return
	}

	respondJSON(w, http.StatusOK, map[string]decimal.Decimal{"total": total})
}

// SetIncome records the month's income for the authenticated user.
func (h *FinanceHandler) SetIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req setIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.ledger.ApplyIncome(r.Context(), userID, req.Amount, timeNow())
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			respondError(w, http.StatusBadRequest, "Amount must not be negative")
			return
		}
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to set income")
		respondError(w, http.StatusInternalServerError, "Failed to set income")
		return
	}

	h.cache.InvalidateUser(userID)
	respondJSON(w, http.StatusOK, entry)
}

// LatestIncome returns the user's most recent income entry.
func (h *FinanceHandler) LatestIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entry, err := h.ledger.LatestIncome(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to get latest income")
		respondError(w, http.StatusInternalServerError, "Failed to get income")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "No income recorded")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// ListExpenses returns the user's expenses, newest first.
func (h *FinanceHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expenses, err := h.expenses.ListByUser(r.Context(), userID, listLimit(r))
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list expenses")
		respondError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []*expense.Expense{}
	}

	respondJSON(w, http.StatusOK, expenses)
}

// ExpenseSummary returns per-category expense totals. The summary is the
// hottest read in the UI, so it is served from cache when fresh.
func (h *FinanceHandler) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	key := cache.UserKey("summary", userID)
	if cached, hit := h.cache.Get(key); hit {
		if summary, ok := cached.([]expense.CategorySummary); ok {
			respondJSON(w, http.StatusOK, summary)
			return
		}
	}

	summary, err := h.expenses.SummaryByCategory(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to summarize expenses")
		respondError(w, http.StatusInternalServerError, "Failed to summarize expenses")
		return
	}
	if summary == nil {
		summary = []expense.CategorySummary{}
	}

	h.cache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}
