package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"goodsgo/internal/models"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id string) (*models.Item, error)
	ListActive(ctx context.Context) ([]models.Item, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	FindByID(ctx context.Context, id string) (*models.Location, error)
	ListActive(ctx context.Context) ([]models.Location, error)
}

type itemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) ItemRepository {
	return &itemRepository{db: db}
}

func scanItem(row rowScanner) (models.Item, error) {
	var (
		it      models.Item
		deleted sql.NullTime
	)
	if err := row.Scan(&it.ID, &it.Name, &it.Created, &it.Modified, &deleted); err != nil {
		return it, err
	}
	if deleted.Valid {
		d := deleted.Time
		it.Deleted = &d
	}
	return it, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `INSERT INTO items (item_id, name, created, modified) VALUES (` + r.db.Dialect.Placeholders(1, 4) + `)`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Created, item.Modified); err != nil {
		return fmt.Errorf("insert item: %w", mapError(err))
	}
	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT item_id, name, created, modified, deleted FROM items WHERE item_id = ` + r.db.ph(1)
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find item %s: %w", id, mapLookupError(err))
	}
	return &it, nil
}

func (r *itemRepository) ListActive(ctx context.Context) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, name, created, modified, deleted FROM items WHERE deleted IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type locationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) LocationRepository {
	return &locationRepository{db: db}
}

func scanLocation(row rowScanner) (models.Location, error) {
	var (
		loc     models.Location
		parent  sql.NullString
		deleted sql.NullTime
	)
	if err := row.Scan(&loc.ID, &loc.Name, &parent, &loc.Created, &loc.Modified, &deleted); err != nil {
		return loc, err
	}
	loc.ParentLocationID = nullString(parent)
	if deleted.Valid {
		d := deleted.Time
		loc.Deleted = &d
	}
	return loc, nil
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	if location.ID == "" {
		location.ID = uuid.NewString()
	}
	query := `INSERT INTO locations (location_id, name, parent_location_id, created, modified)
		VALUES (` + r.db.Dialect.Placeholders(1, 5) + `)`
	_, err := r.db.ExecContext(ctx, query,
		location.ID, location.Name, location.ParentLocationID, location.Created, location.Modified)
	if err != nil {
		return fmt.Errorf("insert location: %w", mapError(err))
	}
	return nil
}

func (r *locationRepository) FindByID(ctx context.Context, id string) (*models.Location, error) {
	query := `SELECT location_id, name, parent_location_id, created, modified, deleted
		FROM locations WHERE location_id = ` + r.db.ph(1)
	loc, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find location %s: %w", id, mapLookupError(err))
	}
	return &loc, nil
}

func (r *locationRepository) ListActive(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT location_id, name, parent_location_id, created, modified, deleted
		FROM locations WHERE deleted IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
