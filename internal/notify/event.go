// README: Ride update event contract and notifier fan-out.
package notify

import (
	"ridebroker/internal/modules/ride"
	"ridebroker/internal/types"
)

const eventType = "ride_status_update"

// Event is the wire shape pushed to subscribers on every persisted ride
// transition. The snapshot is the full ride record as stored.
type Event struct {
	Type   string      `json:"type"`
	RideID types.ID    `json:"ride_id"`
	Status ride.Status `json:"status"`
	Ride   *ride.Ride  `json:"ride"`
}

// Multi fans one update out to several transports. Each transport is
// fire-and-forget on its own; a failing one never affects the others.
type Multi []ride.Notifier

func (m Multi) RideUpdated(rideID types.ID, status ride.Status, snapshot *ride.Ride) {
	for _, n := range m {
		n.RideUpdated(rideID, status, snapshot)
	}
}
