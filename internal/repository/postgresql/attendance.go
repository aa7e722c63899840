package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, date,
	check_in_time, check_out_time,
	check_in_latitude, check_in_longitude, check_in_accuracy,
	check_out_latitude, check_out_longitude, check_out_accuracy,
	status, absence_reason,
	created_at, updated_at`

// Insert implements attendance.Repository. The unique index on
// (user_id, date) plus ON CONFLICT DO NOTHING makes this a compare-and-set:
// when two check-ins race, exactly one row wins and the loser sees
// ErrAlreadyCheckedIn.
func (a *attendanceRepository) Insert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		INSERT INTO attendance_records (
			user_id, date,
			check_in_time, check_out_time,
			check_in_latitude, check_in_longitude, check_in_accuracy,
			check_out_latitude, check_out_longitude, check_out_accuracy,
			status, absence_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	inLat, inLon, inAcc := locationColumns(rec.CheckInLocation)
	outLat, outLon, outAcc := locationColumns(rec.CheckOutLocation)

	err := a.db.QueryRow(ctx, query,
		rec.UserID,
		rec.Date,
		rec.CheckInTime,
		rec.CheckOutTime,
		inLat, inLon, inAcc,
		outLat, outLon, outAcc,
		rec.Status,
		rec.AbsenceReason,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict target hit: the day's slot is already taken
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		UPDATE attendance_records SET
			check_in_time = $2,
			check_out_time = $3,
			check_in_latitude = $4, check_in_longitude = $5, check_in_accuracy = $6,
			check_out_latitude = $7, check_out_longitude = $8, check_out_accuracy = $9,
			status = $10,
			absence_reason = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	inLat, inLon, inAcc := locationColumns(rec.CheckInLocation)
	outLat, outLon, outAcc := locationColumns(rec.CheckOutLocation)

	err := a.db.QueryRow(ctx, query,
		rec.ID,
		rec.CheckInTime,
		rec.CheckOutTime,
		inLat, inLon, inAcc,
		outLat, outLon, outAcc,
		rec.Status,
		rec.AbsenceReason,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
		LIMIT 1
	`, attendanceColumns)

	rec, err := scanRecord(a.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &rec, nil
}

// List implements attendance.Repository. created_at ordering mirrors the
// memory ledger's insertion order.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.UserIDs != nil {
		baseWhere += fmt.Sprintf(" AND user_id = ANY($%d)", argIdx)
		args = append(args, filter.UserIDs)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records
		WHERE %s
		ORDER BY created_at ASC, id ASC
	`, attendanceColumns, baseWhere)

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, nil
}

func locationColumns(loc *attendance.GeoLocation) (lat, lon, acc *float64) {
	if loc == nil {
		return nil, nil, nil
	}
	return &loc.Latitude, &loc.Longitude, loc.Accuracy
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var inLat, inLon, inAcc, outLat, outLon, outAcc *float64

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime,
		&inLat, &inLon, &inAcc,
		&outLat, &outLon, &outAcc,
		&rec.Status, &rec.AbsenceReason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	if inLat != nil && inLon != nil {
		rec.CheckInLocation = &attendance.GeoLocation{Latitude: *inLat, Longitude: *inLon, Accuracy: inAcc}
	}
	if outLat != nil && outLon != nil {
		rec.CheckOutLocation = &attendance.GeoLocation{Latitude: *outLat, Longitude: *outLon, Accuracy: outAcc}
	}

	return rec, nil
}
