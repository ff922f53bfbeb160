// README: Ride lifecycle service; validates transitions, estimates fares, persists, notifies.
package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ridebroker/internal/types"
)

var (
	ErrNotFound          = errors.New("ride not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("ride was modified concurrently")
	ErrBadRequest        = errors.New("bad request")
)

// Storage persists rides and their transition log. UpdateStatus is a
// compare-and-swap on (status, status_version); false means another writer
// won the race.
type Storage interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	ListByRider(ctx context.Context, riderID types.ID) ([]*Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

// Estimator computes the fare for supplied trip metrics.
type Estimator interface {
	Estimate(ctx context.Context, distanceMeters, durationSeconds float64, vehicleType string) (float64, error)
}

// Notifier broadcasts a ride snapshot after a transition has been persisted.
// Delivery is fire-and-forget: implementations must not block the caller and
// ride-state correctness never depends on it.
type Notifier interface {
	RideUpdated(rideID types.ID, status Status, snapshot *Ride)
}

type Service struct {
	store     Storage
	estimator Estimator
	notifier  Notifier
	log       *logrus.Logger
}

func NewService(store Storage, estimator Estimator, notifier Notifier, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, estimator: estimator, notifier: notifier, log: log}
}

type AcceptCommand struct {
	RideID   types.ID
	DriverID types.ID
}

type UpdateStatusCommand struct {
	RideID types.ID
	To     Status
	Actor  string
}

// Create estimates the fare and persists a new PENDING ride. Creation is
// atomic: if the estimate fails nothing is written. Absent distance/duration
// are estimated as zero, which prices down to the schedule's minimum fare.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if cmd.RiderID == "" || cmd.VehicleType == "" {
		return nil, ErrBadRequest
	}

	var distanceM, durationS float64
	if cmd.DistanceMeters != nil {
		distanceM = *cmd.DistanceMeters
	}
	if cmd.DurationSeconds != nil {
		durationS = *cmd.DurationSeconds
	}

	fareAmount, err := s.estimator.Estimate(ctx, distanceM, durationS, cmd.VehicleType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Ride{
		ID:             types.ID(uuid.NewString()),
		RiderID:        cmd.RiderID,
		Pickup:         cmd.Pickup,
		PickupAddress:  cmd.PickupAddress,
		Dropoff:        cmd.Dropoff,
		DropoffAddress: cmd.DropoffAddress,
		VehicleType:    cmd.VehicleType,
		DistanceKm:     distanceM / 1000,
		DurationMin:    DurationMinutes(durationS),
		EstimatedFare:  fareAmount,
		Status:         StatusPending,
		StatusVersion:  0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.appendEvent(ctx, r.ID, StatusNone, StatusPending, "rider")
	s.notify(r)
	return r, nil
}

// Accept assigns a driver to a PENDING ride. A missing ride surfaces as
// ErrNotFound before any transition is attempted.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Ride, error) {
	if cmd.DriverID == "" {
		return nil, fmt.Errorf("%w: driver_id is required", ErrBadRequest)
	}
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, StatusAccepted) {
		return nil, transitionErr(r.Status, StatusAccepted)
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusAccepted, r.StatusVersion, &cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	from := r.Status
	r.DriverID = &cmd.DriverID
	r.Status = StatusAccepted
	r.StatusVersion++
	r.UpdatedAt = time.Now().UTC()

	s.appendEvent(ctx, r.ID, from, StatusAccepted, "driver")
	s.notify(r)
	return r, nil
}

// UpdateStatus is the generic transition entry point for the terminal states.
// ACCEPTED is reachable only through Accept, which carries the driver id.
func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*Ride, error) {
	if cmd.To != StatusCompleted && cmd.To != StatusCancelled {
		return nil, fmt.Errorf("%w: status %q is not accepted here", ErrBadRequest, cmd.To)
	}
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, cmd.To) {
		return nil, transitionErr(r.Status, cmd.To)
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, cmd.To, r.StatusVersion, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	from := r.Status
	r.Status = cmd.To
	r.StatusVersion++
	r.UpdatedAt = time.Now().UTC()

	actor := cmd.Actor
	if actor == "" {
		actor = "system"
	}
	s.appendEvent(ctx, r.ID, from, cmd.To, actor)
	s.notify(r)
	return r, nil
}

// Cancel is sugar for the CANCELLED transition.
func (s *Service) Cancel(ctx context.Context, rideID types.ID, actor string) (*Ride, error) {
	return s.UpdateStatus(ctx, UpdateStatusCommand{RideID: rideID, To: StatusCancelled, Actor: actor})
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

// ListByRider returns the rider's rides, newest first. An unknown rider is an
// empty list, not an error.
func (s *Service) ListByRider(ctx context.Context, riderID types.ID) ([]*Ride, error) {
	return s.store.ListByRider(ctx, riderID)
}

// The transition log is best effort; a failed append never rolls back the
// transition itself.
func (s *Service) appendEvent(ctx context.Context, rideID types.ID, from, to Status, actor string) {
	err := s.store.AppendEvent(ctx, &Event{
		RideID:     rideID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithField("ride_id", rideID).Warn("append ride event")
	}
}

func (s *Service) notify(r *Ride) {
	if s.notifier == nil {
		return
	}
	snapshot := *r
	s.notifier.RideUpdated(r.ID, r.Status, &snapshot)
}

func transitionErr(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
