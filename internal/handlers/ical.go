package handlers

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/services"
	ical "github.com/arran4/golang-ical"
)

const (
	defaultCalendarName = "Slice n Dice"
	feedDaysBack        = 14
	feedDaysAhead       = 31
)

type ICalHandler struct {
	mealService   *services.MealService
	tokenRepo     repository.APITokenRepository
	settingsRepo  repository.SettingsRepository
	calendarToken string
	now           func() time.Time
}

func NewICalHandler(
	mealService *services.MealService,
	tokenRepo repository.APITokenRepository,
	settingsRepo repository.SettingsRepository,
	calendarToken string,
) *ICalHandler {
	return &ICalHandler{
		mealService:   mealService,
		tokenRepo:     tokenRepo,
		settingsRepo:  settingsRepo,
		calendarToken: calendarToken,
		now:           time.Now,
	}
}

// Feed serves planned meals as all-day events. Without ?from and ?to it
// covers two weeks back and a month ahead.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if !handler.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	today := handler.now().UTC()
	from := r.URL.Query().Get("from")
	if from == "" {
		from = today.AddDate(0, 0, -feedDaysBack).Format(models.DateLayout)
	}
	to := r.URL.Query().Get("to")
	if to == "" {
		to = today.AddDate(0, 0, feedDaysAhead).Format(models.DateLayout)
	}

	days, err := handler.mealService.ListDays(ctx, from, to)
	if err != nil {
		if isInvalidInput(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("listing days for ical", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	calendarName, err := handler.settingsRepo.GetOrDefault(ctx, repository.SettingCalendarName, defaultCalendarName)
	if err != nil {
		slog.Error("reading calendar name", "error", err)
		calendarName = defaultCalendarName
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=slice-n-dice.ics")
	w.Write([]byte(buildCalendar(calendarName, days, today)))
}

func (handler *ICalHandler) authorized(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		return false
	}

	if handler.calendarToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(handler.calendarToken)) == 1 {
		return true
	}

	found, err := handler.tokenRepo.FindByTokenHash(r.Context(), repository.HashToken(token))
	if err != nil {
		if !repository.IsNotFound(err) {
			slog.Error("finding ical token", "error", err)
		}
		return false
	}
	return repository.Valid(found, models.TokenScopeICal, handler.now())
}

func buildCalendar(name string, days []models.Day, stamp time.Time) string {
	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId(fmt.Sprintf("-//%s//%s//EN", name, name))
	calendar.SetXWRCalName(name)

	for _, day := range days {
		date, err := time.Parse(models.DateLayout, day.Date)
		if err != nil {
			continue
		}
		addMealEvent(calendar, date, models.MealTypeLunch, day.Lunch, stamp)
		addMealEvent(calendar, date, models.MealTypeDinner, day.Dinner, stamp)
	}

	return calendar.Serialize()
}

func addMealEvent(calendar *ical.Calendar, date time.Time, slot models.MealType, meal models.Meal, stamp time.Time) {
	summary, ok := mealSummary(slot, meal)
	if !ok {
		return
	}

	event := calendar.AddEvent(fmt.Sprintf("meal-%s-%s@slice-n-dice", date.Format(models.DateLayout), slot))
	event.SetSummary(summary)
	event.SetDtStampTime(stamp)
	event.SetAllDayStartAt(date)
	event.SetAllDayEndAt(date.AddDate(0, 0, 1))
}

// mealSummary reads like "[Lunch] Pasta". Unset slots have no event.
func mealSummary(slot models.MealType, meal models.Meal) (string, bool) {
	label := "Lunch"
	if slot == models.MealTypeDinner {
		label = "Dinner"
	}

	switch meal.Kind {
	case models.MealKindRecipe:
		return fmt.Sprintf("[%s] %s", label, meal.Recipe.Name), true
	case models.MealKindCheat:
		return fmt.Sprintf("[%s] Cheat meal", label), true
	default:
		return "", false
	}
}
