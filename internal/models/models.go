package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Recipe struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quick     bool      `json:"quick"`
	Body      string    `json:"body"`
	BodyText  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// RecipeCandidate is a recipe eligible for random selection together with
// how many day slots have used it so far.
type RecipeCandidate struct {
	Recipe    Recipe
	Frequency float64
}

type MealType string

const (
	MealTypeLunch  MealType = "lunch"
	MealTypeDinner MealType = "dinner"
	MealTypeBoth   MealType = "both"
)

func (mealType MealType) Valid() bool {
	switch mealType {
	case MealTypeLunch, MealTypeDinner, MealTypeBoth:
		return true
	}
	return false
}

func (mealType MealType) IncludesLunch() bool {
	return mealType == MealTypeLunch || mealType == MealTypeBoth
}

func (mealType MealType) IncludesDinner() bool {
	return mealType == MealTypeDinner || mealType == MealTypeBoth
}

type MealKind string

const (
	MealKindRecipe MealKind = "recipe"
	MealKindCheat  MealKind = "cheat"
	MealKindUnset  MealKind = "unset"
)

// Meal is the resolved state of one slot of a day. Recipe is only set when
// Kind is MealKindRecipe; use the constructors below to build one.
type Meal struct {
	Kind   MealKind
	Recipe *Recipe
}

func RecipeMeal(recipe Recipe) Meal {
	return Meal{Kind: MealKindRecipe, Recipe: &recipe}
}

func CheatMeal() Meal {
	return Meal{Kind: MealKindCheat}
}

func UnsetMeal() Meal {
	return Meal{Kind: MealKindUnset}
}

func (meal Meal) MarshalJSON() ([]byte, error) {
	switch meal.Kind {
	case MealKindRecipe:
		if meal.Recipe == nil {
			return nil, fmt.Errorf("recipe meal without recipe")
		}
		return json.Marshal(struct {
			Type string `json:"type"`
			Recipe
		}{Type: string(MealKindRecipe), Recipe: *meal.Recipe})
	case MealKindCheat:
		return []byte(`{"type":"cheat"}`), nil
	default:
		return []byte(`{"type":"unset"}`), nil
	}
}

type Day struct {
	Date   string `json:"date"`
	Lunch  Meal   `json:"lunch"`
	Dinner Meal   `json:"dinner"`
}

// DayRecord is the stored form of a day. At most one of LunchID and
// LunchIsCheat is set, same for dinner.
type DayRecord struct {
	Date          string
	LunchID       *string
	LunchIsCheat  bool
	DinnerID      *string
	DinnerIsCheat bool
}

// SlotValue is what a write puts into a single slot: either a recipe
// reference or a cheat marker, never both.
type SlotValue struct {
	recipeID string
	cheat    bool
}

func AssignRecipe(recipeID string) SlotValue {
	return SlotValue{recipeID: recipeID}
}

func AssignCheat() SlotValue {
	return SlotValue{cheat: true}
}

// Columns returns the values for the slot's recipe_id and is_cheat columns.
func (value SlotValue) Columns() (*string, bool) {
	if value.cheat {
		return nil, true
	}
	recipeID := value.recipeID
	return &recipeID, false
}

func (value SlotValue) IsCheat() bool {
	return value.cheat
}

// SlotUpdate targets the slots to overwrite. A nil slot is left untouched.
type SlotUpdate struct {
	Lunch  *SlotValue
	Dinner *SlotValue
}

func (update SlotUpdate) Empty() bool {
	return update.Lunch == nil && update.Dinner == nil
}

type Food struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	BestBeforeDate string `json:"bestBeforeDate"`
}

type TokenScope string

const (
	TokenScopeAPI  TokenScope = "api"
	TokenScopeICal TokenScope = "ical"
)

type APIToken struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TokenHash string     `json:"-"`
	Scope     TokenScope `json:"scope"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
