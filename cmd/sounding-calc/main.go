package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/skewt/internal/log"
	"github.com/chrissnell/skewt/pkg/config"
	"github.com/chrissnell/skewt/pkg/sounding"
	"github.com/chrissnell/skewt/pkg/thermo"
)

const celsius = 273.15

// Demo sounding used when no levels are given on the command line.
const (
	demoPressure    = "1000,950,900,850,800,700,600,500,400,300,250,200,150"
	demoTemperature = "30,26,23.5,21,18,11,3,-7,-20,-37,-46,-54,-60"
	demoDewPoint    = "22,20,18,13,7,-3,-15,-25,-35,-50,-60,-70,-80"
)

func main() {
	var (
		cfgFile  = flag.String("config", "", "YAML file with solver and logging settings")
		debug    = flag.Bool("debug", false, "Enable debug logging")
		pList    = flag.String("p", demoPressure, "Comma-separated level pressures (hPa), surface first")
		tList    = flag.String("t", demoTemperature, "Comma-separated level temperatures (°C)")
		tdList   = flag.String("td", demoDewPoint, "Comma-separated level dew points (°C)")
		origin   = flag.Float64("origin", 0, "Pressure the parcel is lifted from (hPa); 0 lifts from the surface")
		accuracy = flag.Float64("accuracy", 0.5, "Accuracy of the EL and LFC search (hPa)")
		profile  = flag.Bool("profile", false, "Print the parcel and environment profiles on the sounding levels")
	)
	flag.Parse()

	cfg := &config.ConfigData{}
	if *cfgFile != "" {
		var err error
		cfg, err = config.NewYAMLProvider(*cfgFile).LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := log.Init(log.Options{Debug: *debug || cfg.Logging.Debug, Level: cfg.Logging.Level}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	snd, err := parseSounding(*pList, *tList, *tdList)
	if err != nil {
		log.Fatalf("sounding: %v", err)
	}

	solver := thermo.NewSolver(thermo.Standard, cfg.Solver.Params(), log.Named("thermo"))
	builder := sounding.NewBuilder(solver)
	ctx := context.Background()

	opts := sounding.BuoyancyOptions{Origin: *origin * 100.0, Accuracy: *accuracy * 100.0}
	a, err := builder.Analyze(ctx, snd, opts)
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}

	fmt.Printf("Parcel from %.1f hPa (%.2f °C, dew point %.2f °C)\n",
		a.Parcel.State.Pressure/100.0, a.Parcel.State.Temperature-celsius, a.Parcel.State.DewPoint-celsius)
	fmt.Printf("  LCL:            %.2f hPa, %.2f °C\n", a.Parcel.LCL.Pressure/100.0, a.Parcel.LCL.Temperature-celsius)
	fmt.Printf("  Theta e:        %.2f K\n", a.Parcel.EquivalentPotentialTemperature)
	fmt.Printf("  Theta wb:       %.2f K\n", a.Parcel.WetBulbPotentialTemperature)
	fmt.Printf("  LFC:            %s\n", formatLevel(a.LevelOfFreeConvection))
	fmt.Printf("  EL:             %s\n", formatLevel(a.EquilibriumLevel))

	if !*profile {
		return
	}
	pp, err := builder.ParcelProfile(ctx, snd, a.Parcel.State.Pressure, sounding.ParcelOptions{})
	if err != nil {
		log.Fatalf("parcel profile: %v", err)
	}
	fmt.Printf("\n  %8s  %8s  %8s  %8s\n", "hPa", "T env", "T parcel", "Td parcel")
	for i := 0; i < pp.Len(); i++ {
		env := snd.Level(i)
		fmt.Printf("  %8.1f  %8.2f  %8.2f  %8.2f\n", pp.Pressure[i]/100.0,
			env.Temperature-celsius, pp.Temperature[i]-celsius, pp.DewPoint[i]-celsius)
	}
}

func formatLevel(p float64) string {
	if math.IsNaN(p) {
		return "none"
	}
	return fmt.Sprintf("%.1f hPa", p/100.0)
}

// parseSounding converts the hPa/°C flag lists to a Sounding in Pa/K.
func parseSounding(p, t, td string) (*sounding.Sounding, error) {
	pressure, err := parseList(p, 100.0, 0)
	if err != nil {
		return nil, fmt.Errorf("pressures: %w", err)
	}
	temperature, err := parseList(t, 1.0, celsius)
	if err != nil {
		return nil, fmt.Errorf("temperatures: %w", err)
	}
	dewPoint, err := parseList(td, 1.0, celsius)
	if err != nil {
		return nil, fmt.Errorf("dew points: %w", err)
	}
	return sounding.New(pressure, temperature, dewPoint)
}

func parseList(s string, scale, offset float64) ([]float64, error) {
	fields := strings.Split(s, ",")
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v*scale+offset)
	}
	return vals, nil
}
