// README: Canonicalizes aliased client ride-creation fields.
package ride

import (
	"fmt"
	"math"
	"strings"

	"ridebroker/internal/types"
)

// CreateRequest is the wire shape of a ride-creation call. Older clients send
// camelCase names, newer ones snake_case; both are accepted, and for each
// logical field the snake_case variant wins when present and non-empty.
// Distance is meters, duration is seconds, fare is advisory only (the
// authoritative estimate is recomputed server-side).
type CreateRequest struct {
	RiderID string `json:"rider_id"`

	PickupLatitude    *float64 `json:"pickup_latitude"`
	PickupLatitudeCC  *float64 `json:"pickupLatitude"`
	PickupLongitude   *float64 `json:"pickup_longitude"`
	PickupLongitudeCC *float64 `json:"pickupLongitude"`
	PickupAddress     *string  `json:"pickup_address"`
	PickupLocation    *string  `json:"pickupLocation"`

	DropoffLatitude    *float64 `json:"dropoff_latitude"`
	DropoffLatitudeCC  *float64 `json:"dropoffLatitude"`
	DropoffLongitude   *float64 `json:"dropoff_longitude"`
	DropoffLongitudeCC *float64 `json:"dropoffLongitude"`
	DropoffAddress     *string  `json:"dropoff_address"`
	DropoffLocation    *string  `json:"dropoffLocation"`

	VehicleType   *string `json:"vehicle_type"`
	VehicleTypeCC *string `json:"vehicleType"`

	Distance *float64 `json:"distance"`
	Duration *float64 `json:"duration"`
	Fare     *float64 `json:"fare"`
}

// CreateCommand is the canonical ride-creation record after alias resolution.
type CreateCommand struct {
	RiderID        types.ID
	Pickup         types.Point
	PickupAddress  string
	Dropoff        types.Point
	DropoffAddress string
	VehicleType    string

	// Raw trip metrics as supplied; nil means absent, not zero.
	DistanceMeters  *float64
	DurationSeconds *float64
}

// Normalize resolves the aliased fields and validates that the required
// geometry and classification are present.
func (r CreateRequest) Normalize() (CreateCommand, error) {
	var cmd CreateCommand

	if r.RiderID == "" {
		return cmd, fmt.Errorf("%w: rider_id is required", ErrBadRequest)
	}
	cmd.RiderID = types.ID(r.RiderID)

	pickupLat := pickNumber(r.PickupLatitude, r.PickupLatitudeCC)
	pickupLng := pickNumber(r.PickupLongitude, r.PickupLongitudeCC)
	dropoffLat := pickNumber(r.DropoffLatitude, r.DropoffLatitudeCC)
	dropoffLng := pickNumber(r.DropoffLongitude, r.DropoffLongitudeCC)
	pickupAddr := pickString(r.PickupAddress, r.PickupLocation)
	dropoffAddr := pickString(r.DropoffAddress, r.DropoffLocation)
	vehicleType := pickString(r.VehicleType, r.VehicleTypeCC)

	for _, req := range []struct {
		name string
		ok   bool
	}{
		{"pickup_latitude", pickupLat != nil},
		{"pickup_longitude", pickupLng != nil},
		{"pickup_address", pickupAddr != nil},
		{"dropoff_latitude", dropoffLat != nil},
		{"dropoff_longitude", dropoffLng != nil},
		{"dropoff_address", dropoffAddr != nil},
		{"vehicle_type", vehicleType != nil},
	} {
		if !req.ok {
			return cmd, fmt.Errorf("%w: %s is required", ErrBadRequest, req.name)
		}
	}

	cmd.Pickup = types.Point{Lat: *pickupLat, Lng: *pickupLng}
	cmd.PickupAddress = *pickupAddr
	cmd.Dropoff = types.Point{Lat: *dropoffLat, Lng: *dropoffLng}
	cmd.DropoffAddress = *dropoffAddr
	cmd.VehicleType = CanonicalVehicleType(*vehicleType)
	cmd.DistanceMeters = r.Distance
	cmd.DurationSeconds = r.Duration
	return cmd, nil
}

// pickNumber applies the alias precedence rule for numeric pairs: the
// snake_case value wins when set, the camelCase value is the fallback.
func pickNumber(snake, camel *float64) *float64 {
	if snake != nil {
		return snake
	}
	return camel
}

// pickString is pickNumber for strings; an empty string counts as absent.
func pickString(snake, camel *string) *string {
	if snake != nil && *snake != "" {
		return snake
	}
	if camel != nil && *camel != "" {
		return camel
	}
	return nil
}

// CanonicalVehicleType lower-cases and maps hyphens to underscores so that
// client values like "Bike-Lite" match the stored enum value "bike_lite".
func CanonicalVehicleType(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// DurationMinutes rounds seconds up to whole minutes: partial minutes are
// billed as full minutes, never truncated down.
func DurationMinutes(seconds float64) int {
	return int(math.Ceil(seconds / 60))
}
