package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	recipeRepo repository.RecipeRepository
}

func NewRecipeHandler(recipeRepo repository.RecipeRepository) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo}
}

type recipeRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Quick bool   `json:"quick"`
	Body  string `json:"body"`
}

func (handler *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.RecipeFilter{Search: query.Get("search")}

	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		filter.Limit = parsed
	}
	if quick := query.Get("quick"); quick != "" {
		parsed, err := strconv.ParseBool(quick)
		if err != nil {
			writeError(w, http.StatusBadRequest, "quick must be true or false")
			return
		}
		filter.Quick = &parsed
	}

	recipes, err := handler.recipeRepo.FindAll(r.Context(), filter)
	if err != nil {
		slog.Error("finding recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (handler *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		slog.Error("finding recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	recipe, ok := parseRecipe(w, r)
	if !ok {
		return
	}

	created, err := handler.recipeRepo.Create(r.Context(), recipe)
	if err != nil {
		slog.Error("creating recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	recipe, ok := parseRecipe(w, r)
	if !ok {
		return
	}
	recipe.ID = chi.URLParam(r, "id")

	updated, err := handler.recipeRepo.Update(r.Context(), recipe)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		slog.Error("updating recipe", "id", recipe.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := handler.recipeRepo.Delete(r.Context(), id); err != nil {
		slog.Error("deleting recipe", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRecipe(w http.ResponseWriter, r *http.Request) (models.Recipe, bool) {
	var request recipeRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.Recipe{}, false
	}

	bodyText, err := services.PlainText(request.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "body is not valid html")
		return models.Recipe{}, false
	}

	return models.Recipe{
		Name:     request.Name,
		Quick:    request.Quick,
		Body:     request.Body,
		BodyText: bodyText,
	}, true
}
