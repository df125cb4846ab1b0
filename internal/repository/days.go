package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/models"
)

var ErrEmptySlotUpdate = errors.New("slot update targets no meal")

type DayFilter struct {
	DateFrom string
	DateTo   string
}

type DayRepository interface {
	FindByDate(ctx context.Context, date string) (models.DayRecord, error)
	FindAll(ctx context.Context, filter DayFilter) ([]models.DayRecord, error)
	Upsert(ctx context.Context, date string, update models.SlotUpdate) (models.DayRecord, error)
}

type SQLiteDayRepository struct {
	database *sql.DB
}

func NewDayRepository(database *sql.DB) *SQLiteDayRepository {
	return &SQLiteDayRepository{database: database}
}

const dayColumns = `date, lunch_id, lunch_is_cheat, dinner_id, dinner_is_cheat`

func scanDay(row rowScanner) (models.DayRecord, error) {
	var day models.DayRecord
	err := row.Scan(&day.Date, &day.LunchID, &day.LunchIsCheat, &day.DinnerID, &day.DinnerIsCheat)
	return day, err
}

// FindByDate wraps sql.ErrNoRows when no meal was ever written for date.
func (repository *SQLiteDayRepository) FindByDate(ctx context.Context, date string) (models.DayRecord, error) {
	day, err := scanDay(repository.database.QueryRowContext(ctx,
		`SELECT `+dayColumns+` FROM days WHERE date = ?`, date,
	))
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("finding day %s: %w", date, err)
	}
	return day, nil
}

func (repository *SQLiteDayRepository) FindAll(ctx context.Context, filter DayFilter) ([]models.DayRecord, error) {
	query := `SELECT ` + dayColumns + ` FROM days WHERE 1=1`

	var args []any

	if filter.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, filter.DateTo)
	}

	query += " ORDER BY date ASC"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding days: %w", err)
	}
	defer rows.Close()

	var days []models.DayRecord
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// Upsert writes the targeted slots of date in a single statement, creating
// the row if needed. Columns of a slot that is not targeted are neither
// inserted nor updated, so concurrent writes to the sibling slot survive.
func (repository *SQLiteDayRepository) Upsert(ctx context.Context, date string, update models.SlotUpdate) (models.DayRecord, error) {
	if update.Empty() {
		return models.DayRecord{}, ErrEmptySlotUpdate
	}

	now := time.Now().UTC()
	columns := []string{"date", "created_at", "updated_at"}
	args := []any{date, now, now}
	assignments := []string{"updated_at = excluded.updated_at"}

	addSlot := func(prefix string, value *models.SlotValue) {
		if value == nil {
			return
		}
		recipeID, cheat := value.Columns()
		columns = append(columns, prefix+"_id", prefix+"_is_cheat")
		args = append(args, recipeID, cheat)
		assignments = append(assignments,
			prefix+"_id = excluded."+prefix+"_id",
			prefix+"_is_cheat = excluded."+prefix+"_is_cheat",
		)
	}
	addSlot("lunch", update.Lunch)
	addSlot("dinner", update.Dinner)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := `INSERT INTO days (` + strings.Join(columns, ", ") + `)
		VALUES (` + placeholders + `)
		ON CONFLICT (date) DO UPDATE SET ` + strings.Join(assignments, ", ") + `
		RETURNING ` + dayColumns

	day, err := scanDay(repository.database.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("upserting day %s: %w", date, err)
	}
	return day, nil
}
