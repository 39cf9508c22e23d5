package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"goodsgo/internal/authz"
	"goodsgo/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// FindByID returns the user even when it is soft-deleted.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail returns the non-deleted user owning email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListActiveByRoles(ctx context.Context, roles []authz.Role) ([]models.User, error)
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, name, email, role, password_hash, created, modified, deleted`

func scanUser(row rowScanner) (models.User, error) {
	var (
		u       models.User
		email   sql.NullString
		role    int
		deleted sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &email, &role, &u.PasswordHash, &u.Created, &u.Modified, &deleted); err != nil {
		return u, err
	}
	u.Email = nullString(email)
	u.Role = authz.Role(role)
	if deleted.Valid {
		d := deleted.Time
		u.Deleted = &d
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `INSERT INTO users (user_id, name, email, role, password_hash, created, modified)
		VALUES (` + r.db.Dialect.Placeholders(1, 7) + `)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, int(user.Role), user.PasswordHash, user.Created, user.Modified)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapError(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ` + r.db.ph(1)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, mapLookupError(err))
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ` + r.db.ph(1) + ` AND deleted IS NULL`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", mapError(err))
	}
	return &u, nil
}

func (r *userRepository) ListActiveByRoles(ctx context.Context, roles []authz.Role) ([]models.User, error) {
	users := []models.User{}
	if len(roles) == 0 {
		return users, nil
	}
	args := make([]any, len(roles))
	for i, role := range roles {
		args[i] = int(role)
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE deleted IS NULL AND role IN (%s)`,
		userColumns, r.db.Dialect.Placeholders(1, len(roles)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

