// README: Fare schedule store backed by PostgreSQL (read-only from this service).
package fare

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ActiveSetting loads the single active schedule for a vehicle type together
// with its tiers. Numeric columns are selected as text so the engine can
// parse them defensively.
func (s *Store) ActiveSetting(ctx context.Context, vehicleType string) (*Setting, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, vehicle_type,
               base_fare::text, per_km_rate::text, per_minute_rate::text,
               minimum_fare::text, surge_multiplier::text
        FROM fare_settings
        WHERE vehicle_type = $1 AND is_active = TRUE`, vehicleType,
	)

	var st Setting
	err := row.Scan(
		&st.ID, &st.VehicleType,
		&st.BaseFare, &st.PerKmRate, &st.PerMinuteRate,
		&st.MinimumFare, &st.SurgeMultiplier,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, vehicleType)
	}
	if err != nil {
		return nil, err
	}
	st.IsActive = true

	rows, err := s.db.Query(ctx, `
        SELECT km_from::text, km_to::text, per_km_rate::text
        FROM fare_tiers
        WHERE fare_setting_id = $1`, st.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t Tier
		if err := rows.Scan(&t.KmFrom, &t.KmTo, &t.PerKmRate); err != nil {
			return nil, err
		}
		st.Tiers = append(st.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &st, nil
}
