package main

import (
	"math"
	"testing"
)

func TestParseSounding(t *testing.T) {
	snd, err := parseSounding(demoPressure, demoTemperature, demoDewPoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snd.Len() != 13 {
		t.Fatalf("expected 13 levels, got %d", snd.Len())
	}
	sfc := snd.Surface()
	if sfc.Pressure != 100000 || math.Abs(sfc.Temperature-303.15) > 1e-9 || math.Abs(sfc.DewPoint-295.15) > 1e-9 {
		t.Errorf("unexpected surface %+v", sfc)
	}

	tests := []struct {
		name      string
		p, tt, td string
	}{
		{name: "bad number", p: "1000,9x0", tt: "30,20", td: "20,10"},
		{name: "length mismatch", p: "1000,900", tt: "30", td: "20,10"},
		{name: "too few levels", p: "1000", tt: "30", td: "20"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseSounding(tc.p, tc.tt, tc.td); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormatLevel(t *testing.T) {
	if got := formatLevel(math.NaN()); got != "none" {
		t.Errorf("formatLevel(NaN) = %q", got)
	}
	if got := formatLevel(18500); got != "185.0 hPa" {
		t.Errorf("formatLevel(18500) = %q", got)
	}
}
