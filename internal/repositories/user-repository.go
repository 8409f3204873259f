package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	userTable  = "users"
	userFields = "id, username, email, first_name, last_name, password_hash, is_active, created_at, updated_at"

	profileTable  = "user_profiles"
	profileFields = "user_id, role, avatar_url, is_active, created_at, updated_at"
)

var userConstraintFields = map[string]string{
	"username": "username",
	"email":    "email",
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountUsers(ctx context.Context) (uint64, error)

	FindProfile(ctx context.Context, userID uint64) (*entities.UserProfile, error)
	CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error)
	CreateProfileInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error
	UpdateProfileRoleInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func (r *userRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan users row: %w", err)
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query, args, err := psql.Select(userFields).From(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := psql.Select(userFields).From(userTable).Where(sq.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *userRepository) existsWhere(ctx context.Context, where sq.Eq) (bool, error) {
	query, args, err := psql.Select("1").From(userTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = r.storage.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsWhere(ctx, sq.Eq{"username": username})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsWhere(ctx, sq.Eq{"email": email})
}

func (r *userRepository) CountUsers(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+userTable).Scan(&total)
	return total, err
}

func (r *userRepository) FindProfile(ctx context.Context, userID uint64) (*entities.UserProfile, error) {
	query, args, err := psql.Select(profileFields).From(profileTable).Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, err
	}

	var p entities.UserProfile
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&p.UserID, &p.Role, &p.AvatarURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user_profiles row: %w", err)
	}
	return &p, nil
}

func (r *userRepository) CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, email, first_name, last_name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, userTable)

	var id uint64
	err := tx.QueryRow(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash, user.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, translateUniqueViolation(err, userConstraintFields)
	}
	return id, nil
}

func (r *userRepository) CreateProfileInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, role, is_active) VALUES ($1, $2, TRUE)`, profileTable)
	if _, err := tx.Exec(ctx, query, userID, role); err != nil {
		return translateUniqueViolation(err, map[string]string{"user_id": "user_id"})
	}
	return nil
}

func (r *userRepository) UpdateProfileRoleInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`, profileTable)
	result, err := tx.Exec(ctx, query, role, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
