package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/metrics"
	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
)

// MaxListedDays bounds the span of a single ListDays call.
const MaxListedDays = 62

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidRange    = errors.New("invalid date range")
)

// Assignment is the outcome of a randomize request. Unfilled lists the
// slots for which no recipe was eligible; those slots were not written.
type Assignment struct {
	Day      models.Day
	Unfilled []models.MealType
}

type MealService struct {
	dayRepo    repository.DayRepository
	recipeRepo repository.RecipeRepository
	selector   *RecipeSelector
	metrics    *metrics.Collector
}

func NewMealService(
	dayRepo repository.DayRepository,
	recipeRepo repository.RecipeRepository,
	selector *RecipeSelector,
	collector *metrics.Collector,
) *MealService {
	return &MealService{
		dayRepo:    dayRepo,
		recipeRepo: recipeRepo,
		selector:   selector,
		metrics:    collector,
	}
}

// ParseDate validates an ISO date and returns it in canonical form.
func ParseDate(value string) (string, error) {
	parsed, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed.Format(models.DateLayout), nil
}

// GetDay returns the resolved meals of date. A date that was never planned
// has both meals unset; reading never creates a row.
func (service *MealService) GetDay(ctx context.Context, date string) (models.Day, error) {
	date, err := ParseDate(date)
	if err != nil {
		return models.Day{}, err
	}

	record, err := service.dayRepo.FindByDate(ctx, date)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Day{Date: date, Lunch: models.UnsetMeal(), Dinner: models.UnsetMeal()}, nil
		}
		return models.Day{}, fmt.Errorf("getting day %s: %w", date, err)
	}
	return service.resolve(ctx, record)
}

// ListDays resolves every day between from and to inclusive, filling the
// days that were never planned with unset meals. The range spans at most
// MaxListedDays days.
func (service *MealService) ListDays(ctx context.Context, from string, to string) ([]models.Day, error) {
	start, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, from)
	}
	end, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, to, from)
	}
	if start.AddDate(0, 0, MaxListedDays-1).Before(end) {
		return nil, fmt.Errorf("%w: more than %d days from %s to %s", ErrInvalidRange, MaxListedDays, from, to)
	}

	records, err := service.dayRepo.FindAll(ctx, repository.DayFilter{
		DateFrom: start.Format(models.DateLayout),
		DateTo:   end.Format(models.DateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("listing days %s to %s: %w", from, to, err)
	}

	byDate := make(map[string]models.DayRecord, len(records))
	for _, record := range records {
		byDate[record.Date] = record
	}

	days := []models.Day{}
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		date := current.Format(models.DateLayout)
		record, ok := byDate[date]
		if !ok {
			days = append(days, models.Day{Date: date, Lunch: models.UnsetMeal(), Dinner: models.UnsetMeal()})
			continue
		}
		day, err := service.resolve(ctx, record)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// RandomizeMeal draws a recipe for each targeted slot and writes the slots
// that got one in a single upsert. Slots without an eligible recipe keep
// their current value and are reported in Assignment.Unfilled.
func (service *MealService) RandomizeMeal(ctx context.Context, date string, mealType models.MealType, quickOnly bool) (Assignment, error) {
	date, err := ParseDate(date)
	if err != nil {
		return Assignment{}, err
	}
	if !mealType.Valid() {
		return Assignment{}, fmt.Errorf("%w: %q", ErrInvalidMealType, mealType)
	}

	var update models.SlotUpdate
	var unfilled []models.MealType

	draw := func(slot models.MealType) (*models.SlotValue, error) {
		recipe, ok, err := service.selector.Pick(ctx, quickOnly)
		if err != nil {
			return nil, fmt.Errorf("randomizing %s for %s: %w", slot, date, err)
		}
		if !ok {
			unfilled = append(unfilled, slot)
			service.metrics.MealUnfilled(string(slot))
			return nil, nil
		}
		value := models.AssignRecipe(recipe.ID)
		return &value, nil
	}

	if mealType.IncludesLunch() {
		if update.Lunch, err = draw(models.MealTypeLunch); err != nil {
			return Assignment{}, err
		}
	}
	if mealType.IncludesDinner() {
		if update.Dinner, err = draw(models.MealTypeDinner); err != nil {
			return Assignment{}, err
		}
	}

	if !update.Empty() {
		if err := service.write(ctx, date, update, "recipe"); err != nil {
			return Assignment{}, fmt.Errorf("randomizing %s for %s: %w", mealType, date, err)
		}
	} else {
		slog.Info("no recipe available to randomize", "date", date, "meal", mealType, "quick", quickOnly)
	}

	day, err := service.GetDay(ctx, date)
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{Day: day, Unfilled: unfilled}, nil
}

// CheatMeal marks the targeted slots as cheat meals, dropping any recipe.
func (service *MealService) CheatMeal(ctx context.Context, date string, mealType models.MealType) (models.Day, error) {
	date, err := ParseDate(date)
	if err != nil {
		return models.Day{}, err
	}
	if !mealType.Valid() {
		return models.Day{}, fmt.Errorf("%w: %q", ErrInvalidMealType, mealType)
	}

	cheat := models.AssignCheat()
	var update models.SlotUpdate
	if mealType.IncludesLunch() {
		update.Lunch = &cheat
	}
	if mealType.IncludesDinner() {
		update.Dinner = &cheat
	}

	if err := service.write(ctx, date, update, "cheat"); err != nil {
		return models.Day{}, fmt.Errorf("cheating %s for %s: %w", mealType, date, err)
	}
	return service.GetDay(ctx, date)
}

func (service *MealService) write(ctx context.Context, date string, update models.SlotUpdate, kind string) error {
	if _, err := service.dayRepo.Upsert(ctx, date, update); err != nil {
		return err
	}
	if update.Lunch != nil {
		service.metrics.MealAssigned(string(models.MealTypeLunch), kind)
	}
	if update.Dinner != nil {
		service.metrics.MealAssigned(string(models.MealTypeDinner), kind)
	}
	return nil
}

func (service *MealService) resolve(ctx context.Context, record models.DayRecord) (models.Day, error) {
	lunch, err := service.resolveMeal(ctx, record.LunchID, record.LunchIsCheat)
	if err != nil {
		return models.Day{}, fmt.Errorf("resolving lunch for %s: %w", record.Date, err)
	}
	dinner, err := service.resolveMeal(ctx, record.DinnerID, record.DinnerIsCheat)
	if err != nil {
		return models.Day{}, fmt.Errorf("resolving dinner for %s: %w", record.Date, err)
	}
	return models.Day{Date: record.Date, Lunch: lunch, Dinner: dinner}, nil
}

// resolveMeal turns a stored slot into a meal. A reference to a deleted
// recipe reads as unset and is left in storage as is.
func (service *MealService) resolveMeal(ctx context.Context, recipeID *string, isCheat bool) (models.Meal, error) {
	if recipeID != nil {
		recipe, err := service.recipeRepo.FindByID(ctx, *recipeID)
		if err != nil {
			if repository.IsNotFound(err) {
				return models.UnsetMeal(), nil
			}
			return models.Meal{}, err
		}
		return models.RecipeMeal(recipe), nil
	}
	if isCheat {
		return models.CheatMeal(), nil
	}
	return models.UnsetMeal(), nil
}
