package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var c auth.Credentials
	query := `SELECT id, email, name, role, password_hash, is_active FROM admin_users WHERE email = ?`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Role, &c.PasswordHash, &c.IsActive); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Exec(`UPDATE admin_users SET last_login_at = ? WHERE id = ?`, time.Now(), id).Error
}
