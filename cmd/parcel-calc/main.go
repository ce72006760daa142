package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/chrissnell/skewt/internal/log"
	"github.com/chrissnell/skewt/pkg/config"
	"github.com/chrissnell/skewt/pkg/thermo"
)

const celsius = 273.15

func main() {
	var (
		cfgFile string
		debug   bool
		tC      float64
		pHPa    float64
		tdC     float64
		rh      float64
		topHPa  float64
		stepHPa float64
	)
	flag.StringVar(&cfgFile, "config", "", "YAML file with solver and logging settings")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Float64Var(&tC, "t", 3.0, "Parcel temperature (°C)")
	flag.Float64Var(&pHPa, "p", 600.0, "Parcel pressure (hPa)")
	flag.Float64Var(&tdC, "td", -5.0, "Parcel dew point (°C)")
	flag.Float64Var(&rh, "rh", 0, "Relative humidity (%); overrides -td when set")
	flag.Float64Var(&topHPa, "top", 0, "Print the lifted parcel path up to this pressure (hPa)")
	flag.Float64Var(&stepHPa, "step", 50, "Pressure step of the printed path (hPa)")
	flag.Parse()

	cfg := &config.ConfigData{}
	if cfgFile != "" {
		var err error
		cfg, err = config.NewYAMLProvider(cfgFile).LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := log.Init(log.Options{Debug: debug || cfg.Logging.Debug, Level: cfg.Logging.Level}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	c := thermo.Standard
	solver := thermo.NewSolver(c, cfg.Solver.Params(), log.Named("thermo"))

	t := tC + celsius
	p := pHPa * 100.0
	td := tdC + celsius
	if rh > 0 {
		var err error
		td, err = c.DewPointFromRH(t, rh/100.0)
		if err != nil {
			log.Fatalf("dew point from relative humidity: %v", err)
		}
	}

	sum, err := solver.Parcel(t, p, td)
	if err != nil {
		log.Fatalf("parcel: %v", err)
	}

	fmt.Printf("Parcel at %.1f hPa\n", p/100.0)
	fmt.Printf("  T_lcl (deg C):    %.2f\n", round2(sum.LCL.Temperature-celsius))
	fmt.Printf("  P_lcl (mb):       %.2f\n", round2(sum.LCL.Pressure/100.0))
	fmt.Printf("  w (g/kg):         %.2f\n", round2(sum.MixingRatio*1000.0))
	fmt.Printf("  Td (deg C):       %.2f\n", round2(td-celsius))
	fmt.Printf("  Te (deg C):       %.2f\n", round2(sum.EquivalentTemperature-celsius))
	fmt.Printf("  Theta e (deg C):  %.2f\n", round2(sum.EquivalentPotentialTemperature-celsius))
	fmt.Printf("  Theta es (deg C): %.2f\n", round2(sum.SaturatedEquivalentPotentialTemperature-celsius))
	fmt.Printf("  Theta wb (deg C): %.2f\n", round2(sum.WetBulbPotentialTemperature-celsius))
	fmt.Printf("  Theta (deg C):    %.2f\n", round2(sum.PotentialTemperature-celsius))

	if topHPa <= 0 {
		return
	}
	path, err := liftedPath(context.Background(), solver, sum, topHPa*100.0, stepHPa*100.0)
	if err != nil {
		log.Fatalf("lifted path: %v", err)
	}
	fmt.Printf("\nLifted parcel path\n")
	for _, pt := range path {
		fmt.Printf("  %7.1f hPa  %7.2f °C\n", pt.Pressure/100.0, pt.Temperature-celsius)
	}
}

// liftedPath follows the dry adiabat from the parcel to its LCL and the
// moist adiabat from there up to top.
func liftedPath(ctx context.Context, solver *thermo.Solver, sum thermo.ParcelSummary, top, step float64) (thermo.Curve, error) {
	start := sum.State.Pressure
	if top >= start {
		return nil, fmt.Errorf("top %.0f Pa is not above the parcel at %.0f Pa", top, start)
	}

	var path thermo.Curve
	lcl := math.Max(sum.LCL.Pressure, top)
	if lcl < start {
		dry, err := solver.Constants().DryAdiabat(sum.PotentialTemperature, start, lcl, step)
		if err != nil {
			return nil, err
		}
		path = append(path, dry...)
	}
	if lcl > top {
		moist, err := solver.MoistAdiabat(ctx, sum.EquivalentPotentialTemperature, lcl, top, step)
		if err != nil {
			return nil, err
		}
		path = append(path, moist...)
	}
	return path, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
