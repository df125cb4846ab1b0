package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/google/uuid"
)

type RecipeFilter struct {
	Search string
	Limit  int
	Quick  *bool
}

type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	FindAll(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	FindCandidates(ctx context.Context, quickOnly bool) ([]models.RecipeCandidate, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, name, quick, body, body_text, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner, extra ...any) (models.Recipe, error) {
	var recipe models.Recipe
	dest := []any{
		&recipe.ID, &recipe.Name, &recipe.Quick, &recipe.Body,
		&recipe.BodyText, &recipe.CreatedAt, &recipe.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return recipe, err
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	recipe, err := scanRecipe(repository.database.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id,
	))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}
	return recipe, nil
}

// FindAll lists recipes matching the filter. A search matches the name or
// the plain text body, case-insensitively; name matches sort first.
func (repository *SQLiteRecipeRepository) FindAll(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1=1`
	var args []any

	pattern := ""
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern = "%" + escapeLike(search) + "%"
		query += ` AND (name LIKE ? ESCAPE '\' OR body_text LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}
	if filter.Quick != nil {
		query += " AND quick = ?"
		args = append(args, *filter.Quick)
	}

	if pattern != "" {
		query += ` ORDER BY CASE WHEN name LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, name COLLATE NOCASE ASC`
		args = append(args, pattern)
	} else {
		query += " ORDER BY name COLLATE NOCASE ASC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// FindCandidates returns the recipes eligible for random selection with the
// number of day slots that reference each one. Quick recipes are always
// eligible; never used recipes get a frequency of 0.5.
func (repository *SQLiteRecipeRepository) FindCandidates(ctx context.Context, quickOnly bool) ([]models.RecipeCandidate, error) {
	rows, err := repository.database.QueryContext(ctx,
		`WITH all_meals AS (
			SELECT lunch_id AS id FROM days WHERE lunch_id IS NOT NULL
			UNION ALL
			SELECT dinner_id AS id FROM days WHERE dinner_id IS NOT NULL
		), frequencies AS (
			SELECT id, COUNT(id) AS frequency FROM all_meals GROUP BY id
		)
		SELECT r.id, r.name, r.quick, r.body, r.body_text, r.created_at, r.updated_at,
			CAST(COALESCE(f.frequency, 0.5) AS REAL)
		FROM recipes r
		LEFT JOIN frequencies f ON f.id = r.id
		WHERE r.quick = TRUE OR r.quick = ?
		ORDER BY r.id`,
		quickOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("finding recipe candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.RecipeCandidate
	for rows.Next() {
		var frequency float64
		recipe, err := scanRecipe(rows, &frequency)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe candidate: %w", err)
		}
		candidates = append(candidates, models.RecipeCandidate{Recipe: recipe, Frequency: frequency})
	}
	return candidates, rows.Err()
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Name, recipe.Quick, recipe.Body, recipe.BodyText,
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return recipe, nil
}

// Update overwrites name, quick flag and body. It wraps sql.ErrNoRows when
// the recipe does not exist.
func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	result, err := repository.database.ExecContext(ctx,
		`UPDATE recipes SET name = ?, quick = ?, body = ?, body_text = ?, updated_at = ?
		WHERE id = ?`,
		recipe.Name, recipe.Quick, recipe.Body, recipe.BodyText, time.Now().UTC(), recipe.ID,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	if affected == 0 {
		return models.Recipe{}, fmt.Errorf("updating recipe %s: %w", recipe.ID, sql.ErrNoRows)
	}
	return repository.FindByID(ctx, recipe.ID)
}

// Delete removes the recipe. Days that reference it keep the reference.
func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
