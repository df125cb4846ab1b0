package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
)

// RecipeSelector draws a random recipe, favouring the ones that have been
// planned the least.
type RecipeSelector struct {
	recipeRepo repository.RecipeRepository

	mu     sync.Mutex
	random *rand.Rand
}

func NewRecipeSelector(recipeRepo repository.RecipeRepository) *RecipeSelector {
	return &RecipeSelector{recipeRepo: recipeRepo}
}

// NewSeededRecipeSelector uses random instead of the global source.
func NewSeededRecipeSelector(recipeRepo repository.RecipeRepository, random *rand.Rand) *RecipeSelector {
	return &RecipeSelector{recipeRepo: recipeRepo, random: random}
}

// Pick returns one recipe or false when no recipe is eligible. With
// quickOnly only quick recipes are eligible, otherwise all of them are.
//
// Each candidate is weighted by the inverse of its usage frequency and drawn
// with the key log(u) * frequency, keeping the largest.
func (selector *RecipeSelector) Pick(ctx context.Context, quickOnly bool) (models.Recipe, bool, error) {
	candidates, err := selector.recipeRepo.FindCandidates(ctx, quickOnly)
	if err != nil {
		return models.Recipe{}, false, fmt.Errorf("loading recipe candidates: %w", err)
	}
	if len(candidates) == 0 {
		return models.Recipe{}, false, nil
	}

	best := 0
	bestKey := math.Inf(-1)
	for i, candidate := range candidates {
		key := math.Log(selector.uniform()) * candidate.Frequency
		if key > bestKey {
			best = i
			bestKey = key
		}
	}
	return candidates[best].Recipe, true, nil
}

// uniform returns a value in (0, 1].
func (selector *RecipeSelector) uniform() float64 {
	if selector.random == nil {
		return 1 - rand.Float64()
	}
	selector.mu.Lock()
	defer selector.mu.Unlock()
	return 1 - selector.random.Float64()
}
