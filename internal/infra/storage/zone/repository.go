package zone

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MFB-BookingService/pkg/psqlbuilder"
)

var zoneColumns = []string{
	"id",
	"facility_id",
	"name",
	"capacity",
	"price_per_hour",
	"parent_zone_id",
	"is_main_zone",
	"min_duration_hours",
	"max_duration_hours",
	"allowed_time_slots",
	"advance_booking_days",
	"cancellation_hours",
}

// Repository репозиторий зон объекта и их правил бронирования
// Зоны меняются редко и только администраторами объекта - ядро читает их как snapshot
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория зон
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByFacility получает все зоны объекта
func (r *Repository) GetByFacility(ctx context.Context, facilityID int64) ([]domain.Zone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(zoneColumns...).
		From("zones").
		Where(squirrel.Eq{"facility_id": facilityID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.Zone, 0)
	for rows.Next() {
		z, err := scanZone(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByFacility - scan row: %v", ErrScanRow, err)
		}
		result = append(result, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetByID получает зону по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Zone, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(zoneColumns...).
		From("zones").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	z, err := scanZone(executor.QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan zone: %v", ErrScanRow, err)
	}

	return &z, nil
}

// UpdateRules обновляет правила бронирования зоны
func (r *Repository) UpdateRules(ctx context.Context, zoneID int64, rules domain.BookingRules) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("zones").
		Set("min_duration_hours", rules.MinDurationHours).
		Set("max_duration_hours", rules.MaxDurationHours).
		Set("allowed_time_slots", pq.Array(rules.AllowedTimeSlots)).
		Set("advance_booking_days", rules.AdvanceBookingDays).
		Set("cancellation_hours", rules.CancellationHours).
		Where(squirrel.Eq{"id": zoneID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateRules - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRules - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRules - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// scanZone сканирует одну строку в зону
func scanZone(scan func(dest ...interface{}) error) (domain.Zone, error) {
	var z domain.Zone
	var slots pq.StringArray

	err := scan(
		&z.ID,
		&z.FacilityID,
		&z.Name,
		&z.Capacity,
		&z.PricePerHour,
		&z.ParentZoneID,
		&z.IsMainZone,
		&z.Rules.MinDurationHours,
		&z.Rules.MaxDurationHours,
		&slots,
		&z.Rules.AdvanceBookingDays,
		&z.Rules.CancellationHours,
	)
	if err != nil {
		return domain.Zone{}, err
	}

	z.Rules.AllowedTimeSlots = []string(slots)
	return z, nil
}
