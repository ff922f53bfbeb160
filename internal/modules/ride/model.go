// README: Ride aggregate, status graph, and transition log entries.
package ride

import (
	"time"

	"ridebroker/internal/types"
)

type Status string

const (
	StatusNone      Status = ""
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a client-supplied status string onto the enum.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return StatusNone, false
}

type Ride struct {
	ID             types.ID    `json:"id"`
	RiderID        types.ID    `json:"rider_id"`
	DriverID       *types.ID   `json:"driver_id,omitempty"`
	Pickup         types.Point `json:"pickup"`
	PickupAddress  string      `json:"pickup_address"`
	Dropoff        types.Point `json:"dropoff"`
	DropoffAddress string      `json:"dropoff_address"`
	VehicleType    string      `json:"vehicle_type"`
	DistanceKm     float64     `json:"estimated_distance_km"`
	DurationMin    int         `json:"estimated_duration_min"`
	EstimatedFare  float64     `json:"estimated_fare"`
	FinalFare      *float64    `json:"final_fare,omitempty"`
	Status         Status      `json:"status"`
	StatusVersion  int         `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Event is one row of the append-only transition log.
type Event struct {
	ID         int64
	RideID     types.ID
	FromStatus Status
	ToStatus   Status
	Actor      string // "rider", "driver", "system"
	CreatedAt  time.Time
}

// AllowedTransitions is the ride state flow as code. COMPLETED and CANCELLED
// are terminal: no outgoing edges, a ride never regresses out of them.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
