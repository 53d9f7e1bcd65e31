package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nominadocs/payslip-server/internal/model"
)

var _ model.PayslipStore = (*PayslipRepository)(nil)

type PayslipRepository struct {
	db *Connection
}

func NewPayslipRepository(db *Connection) *PayslipRepository {
	return &PayslipRepository{
		db: db,
	}
}

// Add inserts one payslip through the payslips_add function, which owns
// version assignment for the identity tuple.
func (r *PayslipRepository) Add(ctx context.Context, params model.AddPayslipParams) (int64, int, error) {
	query := `SELECT new_id, new_version FROM payslips_add($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var id int64
	var version int
	err := r.db.QueryRow(ctx, query,
		params.UserID, params.PeriodYear, params.PeriodMonth, params.Fortnight,
		params.FileName, params.StoragePath, params.RelativePath,
		params.FileHashHex, params.FileSizeBytes, params.Note,
	).Scan(&id, &version)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to add payslip: %w", err)
	}

	return id, version, nil
}

func (r *PayslipRepository) GetByID(ctx context.Context, id int64) (model.Payslip, error) {
	query := `
		SELECT p.id, p.user_id, u.cedula, p.period_year, p.period_month, p.fortnight,
		       p.file_name, p.storage_path, p.relative_path, p.file_hash_hex,
		       p.file_size_bytes, p.version, COALESCE(p.note, ''), p.uploaded_at
		FROM payslips p
		JOIN employees u ON u.id = p.user_id
		WHERE p.id = $1`

	var p model.Payslip
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Cedula, &p.PeriodYear, &p.PeriodMonth, &p.Fortnight,
		&p.FileName, &p.StoragePath, &p.RelativePath, &p.FileHashHex,
		&p.FileSizeBytes, &p.Version, &p.Note, &p.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payslip{}, model.ErrNotFound
		}
		return model.Payslip{}, fmt.Errorf("failed to get payslip by id: %w", err)
	}

	return p, nil
}

func (r *PayslipRepository) ListByCedula(ctx context.Context, cedula string) ([]model.Payslip, error) {
	query := `
		SELECT p.id, p.user_id, u.cedula, p.period_year, p.period_month, p.fortnight,
		       p.file_name, p.storage_path, p.relative_path, p.file_hash_hex,
		       p.file_size_bytes, p.version, COALESCE(p.note, ''), p.uploaded_at
		FROM payslips p
		JOIN employees u ON u.id = p.user_id
		WHERE u.cedula = $1
		ORDER BY p.period_year DESC, p.period_month DESC,
		         COALESCE(p.fortnight, 0) DESC, p.version DESC, p.id DESC`

	rows, err := r.db.Query(ctx, query, cedula)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips by cedula: %w", err)
	}
	defer rows.Close()

	var payslips []model.Payslip
	for rows.Next() {
		var p model.Payslip
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Cedula, &p.PeriodYear, &p.PeriodMonth, &p.Fortnight,
			&p.FileName, &p.StoragePath, &p.RelativePath, &p.FileHashHex,
			&p.FileSizeBytes, &p.Version, &p.Note, &p.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payslips: %w", err)
	}

	return payslips, nil
}

// ListLocations returns the location view of every payslip, the input of a
// storage reconciliation run.
func (r *PayslipRepository) ListLocations(ctx context.Context) ([]model.PayslipLocation, error) {
	query := `
		SELECT p.id, u.cedula, p.period_year, p.period_month, p.file_name, p.relative_path
		FROM payslips p
		JOIN employees u ON u.id = p.user_id
		ORDER BY p.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip locations: %w", err)
	}
	defer rows.Close()

	var locs []model.PayslipLocation
	for rows.Next() {
		var loc model.PayslipLocation
		err := rows.Scan(&loc.ID, &loc.Cedula, &loc.PeriodYear, &loc.PeriodMonth, &loc.FileName, &loc.RelativePath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payslip locations: %w", err)
	}

	return locs, nil
}
