package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	registrationTable  = "user_registrations"
	registrationFields = `id, username, email, first_name, last_name, password_hash,
		requested_role, status, approved_by_id, approved_at, rejection_reason,
		created_at, updated_at`
)

type RegistrationRepositoryInterface interface {
	Create(ctx context.Context, reg entities.UserRegistration) (uint64, error)
	GetAll(ctx context.Context, filter dto.RegistrationFilterDTO) ([]entities.UserRegistration, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.UserRegistration, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserRegistration, error)
	SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RegistrationStatus, reviewerID uint64, rejectionReason *string) error
	ExistsPendingByUsername(ctx context.Context, username string) (bool, error)
	ExistsPendingByEmail(ctx context.Context, email string) (bool, error)
	CountPending(ctx context.Context) (uint64, error)
}

type registrationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRegistrationRepository(storage *pgxpool.Pool, logger *zap.Logger) RegistrationRepositoryInterface {
	return &registrationRepository{storage: storage, logger: logger}
}

func scanRegistration(row pgx.Row) (*entities.UserRegistration, error) {
	var reg entities.UserRegistration
	err := row.Scan(
		&reg.ID, &reg.Username, &reg.Email, &reg.FirstName, &reg.LastName, &reg.PasswordHash,
		&reg.RequestedRole, &reg.Status, &reg.ApprovedByID, &reg.ApprovedAt, &reg.RejectionReason,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user_registrations row: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg entities.UserRegistration) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, email, first_name, last_name, password_hash, requested_role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, registrationTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		reg.Username, reg.Email, reg.FirstName, reg.LastName, reg.PasswordHash,
		reg.RequestedRole, reg.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *registrationRepository) GetAll(ctx context.Context, filter dto.RegistrationFilterDTO) ([]entities.UserRegistration, uint64, error) {
	builder := psql.Select(registrationFields).From(registrationTable).OrderBy("created_at DESC")
	countBuilder := psql.Select("COUNT(*)").From(registrationTable)

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
		countBuilder = countBuilder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.UserRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint64) (*entities.UserRegistration, error) {
	query, args, err := psql.Select(registrationFields).From(registrationTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRegistration(r.storage.QueryRow(ctx, query, args...))
}

// FindForUpdateInTx locks the row so two admins reviewing the same signup
// serialize; the second reviewer sees the already-updated status.
func (r *registrationRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserRegistration, error) {
	query, args, err := psql.Select(registrationFields).From(registrationTable).
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanRegistration(tx.QueryRow(ctx, query, args...))
}

func (r *registrationRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RegistrationStatus, reviewerID uint64, rejectionReason *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, approved_by_id = $2, approved_at = $3, rejection_reason = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`, registrationTable)

	result, err := tx.Exec(ctx, query, status, reviewerID, time.Now(), rejectionReason, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) existsPendingWhere(ctx context.Context, where sq.Eq) (bool, error) {
	where["status"] = entities.RegistrationPending
	query, args, err := psql.Select("1").From(registrationTable).Where(where).Limit(1).ToSql()
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

func (r *registrationRepository) ExistsPendingByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsPendingWhere(ctx, sq.Eq{"username": username})
}

func (r *registrationRepository) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsPendingWhere(ctx, sq.Eq{"email": email})
}

func (r *registrationRepository) CountPending(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(*) FROM "+registrationTable+" WHERE status = $1",
		entities.RegistrationPending,
	).Scan(&total)
	return total, err
}
