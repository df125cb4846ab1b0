package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/go-chi/chi/v5"
)

const unfilledMealsHeader = "X-Unfilled-Meals"

type DayHandler struct {
	mealService *services.MealService
}

func NewDayHandler(mealService *services.MealService) *DayHandler {
	return &DayHandler{mealService: mealService}
}

func (handler *DayHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	day, err := handler.mealService.GetDay(r.Context(), date)
	if err != nil {
		handler.fail(w, "getting day", date, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// List returns every day from ?from to ?to inclusive.
func (handler *DayHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	days, err := handler.mealService.ListDays(r.Context(), from, to)
	if err != nil {
		handler.fail(w, "listing days", from, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (handler *DayHandler) Randomize(mealType models.MealType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")

		quick := false
		if value := r.URL.Query().Get("quick"); value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				writeError(w, http.StatusBadRequest, "quick must be true or false")
				return
			}
			quick = parsed
		}

		assignment, err := handler.mealService.RandomizeMeal(r.Context(), date, mealType, quick)
		if err != nil {
			handler.fail(w, "randomizing meal", date, err)
			return
		}

		if len(assignment.Unfilled) > 0 {
			unfilled := make([]string, 0, len(assignment.Unfilled))
			for _, slot := range assignment.Unfilled {
				unfilled = append(unfilled, string(slot))
			}
			w.Header().Set(unfilledMealsHeader, strings.Join(unfilled, ","))
		}
		writeJSON(w, http.StatusOK, assignment.Day)
	}
}

func (handler *DayHandler) Cheat(mealType models.MealType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")

		day, err := handler.mealService.CheatMeal(r.Context(), date, mealType)
		if err != nil {
			handler.fail(w, "cheating meal", date, err)
			return
		}
		writeJSON(w, http.StatusOK, day)
	}
}

func (handler *DayHandler) fail(w http.ResponseWriter, action string, date string, err error) {
	if isInvalidInput(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error(action, "date", date, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func isInvalidInput(err error) bool {
	return errors.Is(err, services.ErrInvalidDate) ||
		errors.Is(err, services.ErrInvalidRange) ||
		errors.Is(err, services.ErrInvalidMealType)
}
