package sounding

import (
	"errors"
	"math"
	"testing"

	"github.com/chrissnell/skewt/pkg/thermo"
)

// A conditionally unstable warm-season sounding, surface to 150 hPa.
var (
	testPressure = []float64{100000, 95000, 90000, 85000, 80000, 70000, 60000, 50000, 40000, 30000, 25000, 20000, 15000}
	testTemp     = []float64{303.15, 299.15, 296.65, 294.15, 291.15, 284.15, 276.15, 266.15, 253.15, 236.15, 227.15, 219.15, 213.15}
	testDew      = []float64{295.15, 293.15, 291.15, 286.15, 280.15, 270.15, 258.15, 248.15, 238.15, 223.15, 213.15, 203.15, 193.15}
)

func newTestSounding(t *testing.T) *Sounding {
	t.Helper()
	s, err := New(testPressure, testTemp, testDew)
	if err != nil {
		t.Fatalf("unexpected error building sounding: %v", err)
	}
	return s
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name string
		p    []float64
		t    []float64
		td   []float64
		want error
	}{
		{
			name: "length mismatch",
			p:    []float64{100000, 90000},
			t:    []float64{300, 290},
			td:   []float64{290},
			want: ErrLengthMismatch,
		},
		{
			name: "single level",
			p:    []float64{100000},
			t:    []float64{300},
			td:   []float64{290},
			want: ErrTooFewLevels,
		},
		{
			name: "increasing pressure",
			p:    []float64{90000, 100000},
			t:    []float64{290, 300},
			td:   []float64{280, 290},
			want: ErrUnsortedSounding,
		},
		{
			name: "repeated pressure",
			p:    []float64{100000, 90000, 90000},
			t:    []float64{300, 290, 289},
			td:   []float64{290, 280, 279},
			want: ErrUnsortedSounding,
		},
		{
			name: "dew point above temperature",
			p:    []float64{100000, 90000},
			t:    []float64{300, 290},
			td:   []float64{290, 291},
			want: thermo.ErrDomain,
		},
		{
			name: "NaN temperature",
			p:    []float64{100000, 90000},
			t:    []float64{300, math.NaN()},
			td:   []float64{290, 280},
			want: thermo.ErrDomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p, tt.t, tt.td)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	p := []float64{100000, 90000}
	s, err := New(p, []float64{300, 290}, []float64{290, 280})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p[0] = 1
	if s.Surface().Pressure != 100000 {
		t.Errorf("sounding shares caller's pressure array")
	}
}

func TestSoundingAt(t *testing.T) {
	s := newTestSounding(t)

	tests := []struct {
		name    string
		p       float64
		wantT   float64
		wantTd  float64
		epsilon float64
	}{
		{name: "surface", p: 100000, wantT: 303.15, wantTd: 295.15},
		{name: "observed level", p: 95000, wantT: 299.15, wantTd: 293.15},
		{name: "top", p: 15000, wantT: 213.15, wantTd: 193.15},
		{name: "between 800 and 700 hPa", p: 75000, wantT: 287.7667532661527, wantTd: 275.31679038021815, epsilon: 1e-9},
		{name: "between 950 and 900 hPa", p: 92000, wantT: 297.6662768773017, wantTd: 291.96302150184135, epsilon: 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := s.At(tt.p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if st.Pressure != tt.p {
				t.Errorf("pressure = %g, want %g", st.Pressure, tt.p)
			}
			if math.Abs(st.Temperature-tt.wantT) > tt.epsilon {
				t.Errorf("temperature = %.12f, want %.12f", st.Temperature, tt.wantT)
			}
			if math.Abs(st.DewPoint-tt.wantTd) > tt.epsilon {
				t.Errorf("dew point = %.12f, want %.12f", st.DewPoint, tt.wantTd)
			}
		})
	}

	for _, p := range []float64{100001, 14999, math.NaN()} {
		if _, err := s.At(p); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("At(%g): expected ErrOutOfRange, got %v", p, err)
		}
	}
}

func TestSurfaceAndTop(t *testing.T) {
	s := newTestSounding(t)
	if got := s.Surface(); got != (thermo.State{Pressure: 100000, Temperature: 303.15, DewPoint: 295.15}) {
		t.Errorf("unexpected surface %+v", got)
	}
	if got := s.Top(); got != (thermo.State{Pressure: 15000, Temperature: 213.15, DewPoint: 193.15}) {
		t.Errorf("unexpected top %+v", got)
	}
	if s.Len() != len(testPressure) {
		t.Errorf("expected %d levels, got %d", len(testPressure), s.Len())
	}
}
