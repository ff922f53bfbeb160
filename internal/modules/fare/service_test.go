package fare

import (
	"context"
	"errors"
	"testing"
)

// fakeSource returns a fixed schedule per vehicle type without a database.
type fakeSource struct {
	settings map[string]*Setting
}

func (f *fakeSource) ActiveSetting(_ context.Context, vehicleType string) (*Setting, error) {
	st, ok := f.settings[vehicleType]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return st, nil
}

func tieredSetting(surge string) *Setting {
	return &Setting{
		VehicleType:     "sedan",
		BaseFare:        "20",
		PerKmRate:       "10",
		PerMinuteRate:   "2",
		MinimumFare:     "30",
		SurgeMultiplier: surge,
		IsActive:        true,
		Tiers: []Tier{
			// Deliberately unsorted; the engine must sort by km_from.
			{KmFrom: "5", KmTo: "10", PerKmRate: "6"},
			{KmFrom: "0", KmTo: "5", PerKmRate: "8"},
		},
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name      string
		setting   *Setting
		distanceM float64
		durationS float64
		want      float64
	}{
		{
			name:      "tier boundaries are exact",
			setting:   tieredSetting("1"),
			distanceM: 7000,
			durationS: 600,
			// tier1: 5km * 8 = 40, tier2: 2km * 6 = 12 -> distance 52
			// time: 10min * 2 = 20; raw = 20 + 52 + 20 = 92; floor and surge no-op
			want: 92.00,
		},
		{
			name:      "surge scales the whole fare",
			setting:   tieredSetting("1.5"),
			distanceM: 7000,
			durationS: 600,
			// 92 * 1.5
			want: 138.00,
		},
		{
			name:      "distance past all tiers bills at base per-km rate",
			setting:   tieredSetting("1"),
			distanceM: 12000,
			durationS: 0,
			// tiers: 5*8 + 5*6 = 70, overflow 2km * 10 = 20; raw = 20 + 90 = 110
			want: 110.00,
		},
		{
			name: "no tiers bills everything at base per-km rate",
			setting: &Setting{
				VehicleType: "bike", BaseFare: "10", PerKmRate: "5",
				PerMinuteRate: "1", MinimumFare: "15", SurgeMultiplier: "1",
			},
			distanceM: 4000,
			durationS: 300,
			// 10 + 4*5 + 5*1 = 35
			want: 35.00,
		},
		{
			name:      "minimum fare floor applies before surge",
			setting:   tieredSetting("2"),
			distanceM: 0,
			durationS: 0,
			// raw = 20 < minimum 30 -> 30, then * 2
			want: 60.00,
		},
		{
			name: "text decimals with whitespace parse",
			setting: &Setting{
				VehicleType: "auto", BaseFare: " 12.50", PerKmRate: "9.75 ",
				PerMinuteRate: "0", MinimumFare: "0", SurgeMultiplier: "1",
			},
			distanceM: 2000,
			durationS: 0,
			// 12.50 + 2*9.75 = 32.00
			want: 32.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{settings: map[string]*Setting{tt.setting.VehicleType: tt.setting}}
			svc := NewService(src)

			got, err := svc.Estimate(context.Background(), tt.distanceM, tt.durationS, tt.setting.VehicleType)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Estimate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	src := &fakeSource{settings: map[string]*Setting{"sedan": tieredSetting("1.25")}}
	svc := NewService(src)

	first, err := svc.Estimate(context.Background(), 8400, 733, "sedan")
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := svc.Estimate(context.Background(), 8400, 733, "sedan")
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if got != first {
			t.Fatalf("Estimate() not deterministic: %v then %v", first, got)
		}
	}
}

func TestEstimateMonotonicInDistance(t *testing.T) {
	src := &fakeSource{settings: map[string]*Setting{"sedan": tieredSetting("1")}}
	svc := NewService(src)

	prev := -1.0
	for m := 0.0; m <= 15000; m += 500 {
		got, err := svc.Estimate(context.Background(), m, 300, "sedan")
		if err != nil {
			t.Fatalf("Estimate(%v) error = %v", m, err)
		}
		if got < prev {
			t.Fatalf("fare decreased with distance: %v km -> %v, previous %v", m/1000, got, prev)
		}
		prev = got
	}
}

func TestEstimateMonotonicInDuration(t *testing.T) {
	src := &fakeSource{settings: map[string]*Setting{"sedan": tieredSetting("1")}}
	svc := NewService(src)

	prev := -1.0
	for sec := 0.0; sec <= 1200; sec += 30 {
		got, err := svc.Estimate(context.Background(), 4000, sec, "sedan")
		if err != nil {
			t.Fatalf("Estimate(%vs) error = %v", sec, err)
		}
		if got < prev {
			t.Fatalf("fare decreased with duration: %vs -> %v, previous %v", sec, got, prev)
		}
		prev = got
	}
}

func TestEstimateConfigNotFound(t *testing.T) {
	svc := NewService(&fakeSource{settings: map[string]*Setting{}})

	_, err := svc.Estimate(context.Background(), 1000, 60, "rickshaw")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestEstimateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Setting)
	}{
		{"unparseable base fare", func(s *Setting) { s.BaseFare = "abc" }},
		{"empty surge", func(s *Setting) { s.SurgeMultiplier = "" }},
		{"NaN minimum fare", func(s *Setting) { s.MinimumFare = "NaN" }},
		{"bad tier bound", func(s *Setting) { s.Tiers[0].KmTo = "ten" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tieredSetting("1")
			tt.mutate(st)
			svc := NewService(&fakeSource{settings: map[string]*Setting{"sedan": st}})

			_, err := svc.Estimate(context.Background(), 1000, 60, "sedan")
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestEstimateNonFiniteResult(t *testing.T) {
	st := tieredSetting("1")
	st.BaseFare = "1e308"
	st.SurgeMultiplier = "1e308" // product overflows to +Inf
	svc := NewService(&fakeSource{settings: map[string]*Setting{"sedan": st}})

	_, err := svc.Estimate(context.Background(), 1000, 60, "sedan")
	if !errors.Is(err, ErrComputationFailed) {
		t.Fatalf("expected ErrComputationFailed, got %v", err)
	}
}
