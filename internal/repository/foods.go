package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TimDeve/slice-n-dice/internal/models"
)

const DefaultFoodLimit = 500

type FoodRepository interface {
	FindAll(ctx context.Context, limit int) ([]models.Food, error)
	Create(ctx context.Context, food models.Food) (models.Food, error)
	Delete(ctx context.Context, id int64) error
}

type SQLiteFoodRepository struct {
	database *sql.DB
}

func NewFoodRepository(database *sql.DB) *SQLiteFoodRepository {
	return &SQLiteFoodRepository{database: database}
}

// FindAll returns the foods that go off soonest first.
func (repository *SQLiteFoodRepository) FindAll(ctx context.Context, limit int) ([]models.Food, error) {
	if limit <= 0 {
		limit = DefaultFoodLimit
	}

	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, name, best_before_date FROM foods
		ORDER BY best_before_date ASC, id ASC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("finding foods: %w", err)
	}
	defer rows.Close()

	foods := []models.Food{}
	for rows.Next() {
		var food models.Food
		if err := rows.Scan(&food.ID, &food.Name, &food.BestBeforeDate); err != nil {
			return nil, fmt.Errorf("scanning food: %w", err)
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

func (repository *SQLiteFoodRepository) Create(ctx context.Context, food models.Food) (models.Food, error) {
	result, err := repository.database.ExecContext(ctx,
		"INSERT INTO foods (name, best_before_date) VALUES (?, ?)",
		food.Name, food.BestBeforeDate,
	)
	if err != nil {
		return models.Food{}, fmt.Errorf("creating food: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Food{}, fmt.Errorf("reading food id: %w", err)
	}
	food.ID = id
	return food, nil
}

func (repository *SQLiteFoodRepository) Delete(ctx context.Context, id int64) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM foods WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting food: %w", err)
	}
	return nil
}
