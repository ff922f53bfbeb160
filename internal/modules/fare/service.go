// README: Fare engine; tiered distance billing with surge and minimum-fare floor.
package fare

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrConfigNotFound means no active schedule exists for the vehicle type.
	ErrConfigNotFound = errors.New("no active fare setting")
	// ErrInvalidConfig means a schedule numeric field failed to parse.
	ErrInvalidConfig = errors.New("invalid fare configuration")
	// ErrComputationFailed means the computed fare was not a finite number.
	ErrComputationFailed = errors.New("fare computation failed")
)

// Source yields the single active schedule for a vehicle type, tiers included.
// Absence must surface as ErrConfigNotFound.
type Source interface {
	ActiveSetting(ctx context.Context, vehicleType string) (*Setting, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Estimate computes the fare for the given trip metrics. Distance arrives in
// meters and duration in seconds; both may be zero, which prices down to the
// minimum fare. The result is rounded to 2 decimal places and is always
// finite: a non-finite intermediate surfaces as an error, never as a fare.
func (s *Service) Estimate(ctx context.Context, distanceMeters, durationSeconds float64, vehicleType string) (float64, error) {
	distanceKm := distanceMeters / 1000
	durationMin := durationSeconds / 60

	setting, err := s.source.ActiveSetting(ctx, vehicleType)
	if err != nil {
		return 0, err
	}

	baseFare, err := parseAmount("base_fare", setting.BaseFare)
	if err != nil {
		return 0, err
	}
	basePerKm, err := parseAmount("per_km_rate", setting.PerKmRate)
	if err != nil {
		return 0, err
	}
	perMinute, err := parseAmount("per_minute_rate", setting.PerMinuteRate)
	if err != nil {
		return 0, err
	}
	minimumFare, err := parseAmount("minimum_fare", setting.MinimumFare)
	if err != nil {
		return 0, err
	}
	surge, err := parseAmount("surge_multiplier", setting.SurgeMultiplier)
	if err != nil {
		return 0, err
	}

	tiers, err := parseTiers(setting.Tiers)
	if err != nil {
		return 0, err
	}

	distanceCost := 0.0
	remaining := distanceKm
	for _, t := range tiers {
		if remaining <= 0 {
			break
		}
		bill := math.Min(remaining, t.to-t.from)
		if bill > 0 {
			distanceCost += bill * t.perKm
			remaining -= bill
		}
	}
	// Distance beyond the last tier bills at the schedule's base per-km rate.
	if remaining > 0 {
		distanceCost += remaining * basePerKm
	}

	timeCost := durationMin * perMinute

	raw := baseFare + distanceCost + timeCost
	if raw < minimumFare {
		raw = minimumFare
	}

	final := raw * surge
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return 0, fmt.Errorf("%w: vehicle_type=%s distance_km=%v duration_min=%v", ErrComputationFailed, vehicleType, distanceKm, durationMin)
	}
	return math.Round(final*100) / 100, nil
}

type parsedTier struct {
	from, to, perKm float64
}

func parseTiers(tiers []Tier) ([]parsedTier, error) {
	out := make([]parsedTier, 0, len(tiers))
	for _, t := range tiers {
		from, err := parseAmount("km_from", t.KmFrom)
		if err != nil {
			return nil, err
		}
		to, err := parseAmount("km_to", t.KmTo)
		if err != nil {
			return nil, err
		}
		perKm, err := parseAmount("per_km_rate", t.PerKmRate)
		if err != nil {
			return nil, err
		}
		out = append(out, parsedTier{from: from, to: to, perKm: perKm})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].from < out[j].from })
	return out, nil
}

func parseAmount(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, field, raw)
	}
	return v, nil
}
