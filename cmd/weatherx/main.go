package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abdulsamad/weatherx/internal/cache"
	"github.com/abdulsamad/weatherx/internal/config"
	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/prefs"
	"github.com/abdulsamad/weatherx/internal/scheduler"
	"github.com/abdulsamad/weatherx/internal/store"
	"github.com/abdulsamad/weatherx/internal/units"
	"github.com/abdulsamad/weatherx/internal/weather"
)

func main() {
	unitFlag := flag.String("unit", "", "unit system: metric, imperial, or standard")
	coordsFlag := flag.String("coords", "", `resolve a position instead of a name, as "lat,lon"`)
	timeFormatFlag := flag.Int("timeformat", 0, "clock format: 12 or 24")
	backgroundFlag := flag.String("background", "", "persist the background-download preference: true or false")
	watchFlag := flag.Bool("watch", false, "keep running and refresh on the configured interval")
	flag.Usage = usage
	flag.Parse()

	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	unitName := cfg.App.Unit
	if *unitFlag != "" {
		unitName = *unitFlag
	}
	unit, err := units.Parse(unitName)
	if err != nil {
		log.Fatalf("Invalid unit: %v", err)
	}

	timeFormat := cfg.App.TimeFormat
	if *timeFormatFlag != 0 {
		timeFormat = *timeFormatFlag
	}

	var cacheStore *cache.Cache
	if cfg.App.CachePath != "" {
		cacheStore, err = cache.Open(cfg.App.CachePath)
		if err != nil {
			logger.Warn("failed to open weather cache, continuing without", "path", cfg.App.CachePath, "error", err)
			cacheStore = nil
		} else {
			defer func(c *cache.Cache) {
				_ = c.Close()
			}(cacheStore)
		}
	}

	fetcher, err := weather.NewFetcher(cacheStore, cfg.App.CacheTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create weather fetcher: %v", err)
	}

	appStore := store.New(
		geo.NewResolver(logger),
		fetcher,
		prefs.NewFileStore(cfg.App.PreferencesPath),
		store.Options{
			Unit:       unit,
			TimeFormat: timeFormat,
			Timeout:    cfg.App.RequestTimeout,
			Navigate: func(placeName string) {
				logger.Info("navigating", "place", placeName)
			},
		},
		logger,
	)

	if *backgroundFlag != "" {
		enabled, err := strconv.ParseBool(*backgroundFlag)
		if err != nil {
			log.Fatalf("Invalid -background value %q: %v", *backgroundFlag, err)
		}
		appStore.SetDownloadBackgroundOnLoad(enabled)
	}

	done := make(chan store.State, 1)
	unsubscribe := appStore.Subscribe(func(st store.State) {
		if st.Status == store.StatusReady || st.Status == store.StatusError {
			select {
			case done <- st:
			default:
			}
		}
	})

	if *coordsFlag != "" {
		lat, lon, err := parseCoords(*coordsFlag)
		if err != nil {
			log.Fatalf("Invalid -coords value %q: %v", *coordsFlag, err)
		}
		appStore.SetPlaceByCoordinates(lat, lon)
	} else {
		query := strings.TrimSpace(strings.Join(flag.Args(), " "))
		if query == "" {
			usage()
			os.Exit(2)
		}
		appStore.SetPlaceByName(query)
	}

	st := <-done
	unsubscribe()
	if st.Status == store.StatusError {
		logger.Error("could not load dashboard", "reason", st.Failure.String())
		os.Exit(1)
	}
	render(st)

	if !*watchFlag {
		return
	}

	// Re-render on every subsequent commit, whatever triggered it.
	appStore.Subscribe(func(st store.State) {
		if st.Status == store.StatusReady {
			render(st)
		}
	})

	sched := scheduler.New(appStore, cfg.App.RefreshInterval, logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()
	logger.Info("watching for updates", "interval", cfg.App.RefreshInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: weatherx [flags] <place name>")
	fmt.Fprintln(os.Stderr, "       weatherx [flags] -coords <lat,lon>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples: weatherx \"New York\"")
	fmt.Fprintln(os.Stderr, "          weatherx -unit imperial Boston")
	fmt.Fprintln(os.Stderr, "          weatherx -coords 40.71,-74.01 -watch")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func parseCoords(s string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected \"lat,lon\"")
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("coordinates out of range")
	}
	return lat, lon, nil
}

func render(st store.State) {
	loc, err := time.LoadLocation(st.Timezone)
	if err != nil {
		loc = time.UTC
	}
	clock := "15:04"
	if st.TimeFormat == 12 {
		clock = "3:04 PM"
	}
	titler := cases.Title(language.English)

	header := fmt.Sprintf("Weather for %s:", st.Place.Name)
	fmt.Printf("%s\n%s\n", header, strings.Repeat("-", len(header)))

	cur := st.Current.Reading
	fmt.Printf("Conditions:  %s\n", titler.String(cur.Condition.Description))
	fmt.Printf("Temperature: %s\n", units.Format(cur.Temperature, units.Temperature, st.Unit))
	fmt.Printf("Feels Like:  %s\n", units.Format(cur.FeelsLike, units.Temperature, st.Unit))
	fmt.Printf("Humidity:    %.0f%%\n", cur.Humidity)
	fmt.Printf("Pressure:    %.0f hPa\n", cur.Pressure)
	fmt.Printf("Wind Speed:  %s\n", units.Format(cur.WindSpeed, units.Speed, st.Unit))
	fmt.Println()

	fmt.Printf("Next hours:\n")
	for i, r := range st.Next48Hours.Readings {
		if i >= 12 {
			break
		}
		fmt.Printf("  %-8s %-22s %s",
			r.Time.In(loc).Format(clock),
			titler.String(r.Condition.Description),
			units.Format(r.Temperature, units.Temperature, st.Unit))
		if r.PrecipProbability > 0 {
			fmt.Printf("  Rain: %.0f%%", r.PrecipProbability)
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Printf("Next 7 days:\n")
	for _, r := range st.Next7Days.Readings {
		fmt.Printf("  %s %s: %-22s High: %s. Low: %s.",
			r.Time.In(loc).Format("Mon"),
			r.Time.In(loc).Format("2006-01-02"),
			titler.String(r.Condition.Description),
			units.Format(r.TempMax, units.Temperature, st.Unit),
			units.Format(r.TempMin, units.Temperature, st.Unit))
		if r.PrecipProbability > 0 {
			fmt.Printf(" Rain: %.0f%%.", r.PrecipProbability)
		}
		fmt.Println()
	}
}
