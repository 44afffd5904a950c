package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all users newest first. Password hashes are not selected.
func (r *UserRepository) List() ([]models.User, error) {
	query := `
		SELECT id, name, email, role, created_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetByEmail retrieves a user by email, hash included. Returns nil when
// no account exists for the address.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM users
		WHERE email = ?
	`

	var user models.User
	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by id. Returns nil when the id is unknown.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM users
		WHERE id = ?
	`

	var user models.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user. The id is generated here; role defaults to
// Employee when empty. Fails with ErrEmailTaken on a duplicate address.
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}

	query := `
		INSERT INTO users (id, email, password_hash, name, role)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, user.ID, user.Email, user.PasswordHash, user.Name, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Read back the generated created_at
	row := r.db.QueryRow("SELECT created_at FROM users WHERE id = ?", user.ID)
	if err := row.Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("failed to read created user: %w", err)
	}

	return nil
}

// Update updates name, email and role. The password hash is replaced only
// when newHash is non-empty; an empty value preserves the existing hash.
func (r *UserRepository) Update(id, name, email, role, newHash string) error {
	var err error
	if newHash != "" {
		_, err = r.db.Exec(
			"UPDATE users SET name = ?, email = ?, role = ?, password_hash = ? WHERE id = ?",
			name, email, role, newHash, id,
		)
	} else {
		_, err = r.db.Exec(
			"UPDATE users SET name = ?, email = ?, role = ? WHERE id = ?",
			name, email, role, id,
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		r.logger.Error("Failed to update user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateRole updates a user's role in place.
func (r *UserRepository) UpdateRole(id, role string) error {
	result, err := r.db.Exec("UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		r.logger.Error("Failed to update user role", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update role: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete hard-deletes a user account.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isUniqueViolation detects sqlite unique constraint failures on email.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
