package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-menu/db"
	"restaurant-menu/models"
)

const dishColumns = `
	id::text, category_id::text, name,
	COALESCE(composition, ''), COALESCE(description, ''), COALESCE(allergens, ''),
	COALESCE(features, ''), COALESCE(spiciness::text, ''),
	price::text, COALESCE(photo_file_id, ''), sort_order, is_available`

func ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, name, sort_order FROM categories
		ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, &ServiceError{Op: "categories", Err: err}
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var id, name string
		var order int
		if err := rows.Scan(&id, &name, &order); err != nil {
			return nil, &ServiceError{Op: "categories", Err: err}
		}
		items = append(items, models.Category{ID: models.ID(id), Name: name, SortOrder: order})
	}
	if err := rows.Err(); err != nil {
		return nil, &ServiceError{Op: "categories", Err: err}
	}
	return items, nil
}

func ListDishesByCategory(ctx context.Context, categoryID models.ID) ([]models.Dish, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+dishColumns+` FROM dishes
		WHERE category_id::text = $1 AND is_available
		ORDER BY sort_order, id`,
		categoryID.String(),
	)
	if err != nil {
		return nil, &ServiceError{Op: "dishes", Err: err}
	}
	defer rows.Close()

	var items []models.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, &ServiceError{Op: "dishes", Err: err}
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &ServiceError{Op: "dishes", Err: err}
	}
	return items, nil
}

func GetDish(ctx context.Context, id models.ID) (*models.Dish, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id::text = $1`, id.String())
	d, err := scanDish(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &ServiceError{Op: "dish", Err: err}
	}
	return &d, nil
}

// dishRow holds the text columns of a dishes row before conversion.
type dishRow struct {
	ID, CategoryID string
	Spiciness      string
	Price          *string
}

func scanDish(row pgx.Row) (models.Dish, error) {
	var d models.Dish
	var r dishRow
	err := row.Scan(
		&r.ID, &r.CategoryID, &d.Name,
		&d.Composition, &d.Description, &d.Allergens,
		&d.Features, &r.Spiciness,
		&r.Price, &d.PhotoFileID, &d.SortOrder, &d.IsAvailable,
	)
	if err != nil {
		return d, err
	}
	return r.apply(d)
}

// apply copies the converted columns into d. Spiciness "0" means none, a
// NULL price stays nil.
func (r dishRow) apply(d models.Dish) (models.Dish, error) {
	d.ID = models.ID(r.ID)
	d.CategoryID = models.ID(r.CategoryID)
	d.Spiciness = ""
	if r.Spiciness != "0" {
		d.Spiciness = models.Spiciness(r.Spiciness)
	}
	d.Price = nil
	if r.Price != nil {
		p, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return d, fmt.Errorf("price %q: %w", *r.Price, err)
		}
		d.Price = &p
	}
	return d, nil
}

// PgSource serves the menu straight from Postgres through db.Pool.
type PgSource struct{}

func (PgSource) Categories(ctx context.Context) ([]models.Category, error) {
	return ListCategories(ctx)
}

func (PgSource) Dishes(ctx context.Context, categoryID models.ID) ([]models.Dish, error) {
	return ListDishesByCategory(ctx, categoryID)
}

func (PgSource) Dish(ctx context.Context, id models.ID) (*models.Dish, error) {
	return GetDish(ctx, id)
}
