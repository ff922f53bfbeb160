// README: Ride store backed by PostgreSQL.
package ride

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridebroker/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO rides (
            id, rider_id, driver_id, status, status_version,
            pickup_lat, pickup_lng, pickup_address,
            dropoff_lat, dropoff_lng, dropoff_address,
            vehicle_type, estimated_distance_km, estimated_duration_min,
            estimated_fare, final_fare, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8,
            $9, $10, $11,
            $12, $13, $14,
            $15, $16, $17, $18
        )`,
		string(r.ID),
		string(r.RiderID),
		toStringPtr(r.DriverID),
		string(r.Status),
		r.StatusVersion,
		r.Pickup.Lat, r.Pickup.Lng, r.PickupAddress,
		r.Dropoff.Lat, r.Dropoff.Lng, r.DropoffAddress,
		r.VehicleType, r.DistanceKm, r.DurationMin,
		r.EstimatedFare, r.FinalFare, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, rider_id, driver_id, status, status_version,
               pickup_lat, pickup_lng, pickup_address,
               dropoff_lat, dropoff_lng, dropoff_address,
               vehicle_type, estimated_distance_km, estimated_duration_min,
               estimated_fare, final_fare, created_at, updated_at
        FROM rides
        WHERE id = $1`, string(id),
	)
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListByRider(ctx context.Context, riderID types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, rider_id, driver_id, status, status_version,
               pickup_lat, pickup_lng, pickup_address,
               dropoff_lat, dropoff_lng, dropoff_address,
               vehicle_type, estimated_distance_km, estimated_duration_min,
               estimated_fare, final_fare, created_at, updated_at
        FROM rides
        WHERE rider_id = $1
        ORDER BY created_at DESC`, string(riderID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateStatus performs the optimistic transition: the row is updated only if
// it still carries the expected status and version. RowsAffected == 0 means a
// concurrent writer got there first.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE rides
        SET status = $1,
            status_version = status_version + 1,
            driver_id = COALESCE($2, driver_id),
            updated_at = NOW()
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to),
		toStringPtr(driverID),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO ride_events (
            ride_id, from_status, to_status, actor, created_at
        ) VALUES ($1, $2, $3, $4, $5)`,
		string(e.RideID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.Actor,
		e.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*Ride, error) {
	var r Ride
	var driverID *string
	var finalFare *float64

	err := row.Scan(
		&r.ID, &r.RiderID, &driverID, &r.Status, &r.StatusVersion,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.PickupAddress,
		&r.Dropoff.Lat, &r.Dropoff.Lng, &r.DropoffAddress,
		&r.VehicleType, &r.DistanceKm, &r.DurationMin,
		&r.EstimatedFare, &finalFare, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if driverID != nil {
		d := types.ID(*driverID)
		r.DriverID = &d
	}
	r.FinalFare = finalFare
	return &r, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
