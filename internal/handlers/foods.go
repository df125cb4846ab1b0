package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/go-chi/chi/v5"
)

type FoodHandler struct {
	foodRepo repository.FoodRepository
}

func NewFoodHandler(foodRepo repository.FoodRepository) *FoodHandler {
	return &FoodHandler{foodRepo: foodRepo}
}

type foodRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	BestBeforeDate string `json:"bestBeforeDate" validate:"required,datetime=2006-01-02"`
}

func (handler *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := repository.DefaultFoodLimit
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsed
	}

	foods, err := handler.foodRepo.FindAll(r.Context(), limit)
	if err != nil {
		slog.Error("finding foods", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load foods")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"foods": foods})
}

func (handler *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request foodRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := handler.foodRepo.Create(r.Context(), models.Food{
		Name:           request.Name,
		BestBeforeDate: request.BestBeforeDate,
	})
	if err != nil {
		slog.Error("creating food", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create food")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	if err := handler.foodRepo.Delete(r.Context(), id); err != nil {
		slog.Error("deleting food", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete food")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
