package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"weatherdash/dashboard"
	"weatherdash/forecast"
	"weatherdash/geocode"
	"weatherdash/models"
	"weatherdash/presenter"
	"weatherdash/state"
	"weatherdash/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	dbPath := flag.String("db", envOr("WEATHERDASH_DB", "weatherdash.db"), "Path to the preferences database")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	latStr := flag.String("lat", os.Getenv("WEATHERDASH_LATITUDE"), "Device latitude for geolocation")
	lonStr := flag.String("lon", os.Getenv("WEATHERDASH_LONGITUDE"), "Device longitude for geolocation")
	hours := flag.Int("hours", 12, "Number of hourly entries to display")
	save := flag.Bool("save", false, "Add the selected city to favorites")
	listFavorites := flag.Bool("favorites", false, "List saved favorites and exit")
	toggleTheme := flag.Bool("toggle-theme", false, "Toggle the light/dark theme preference")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	kv, err := storage.NewSQLite(*dbPath)
	if err != nil {
		logger.Fatal("failed to open preferences database", zap.String("path", *dbPath), zap.Error(err))
	}
	defer kv.Close()

	app, err := state.Load(kv, logger)
	if err != nil {
		logger.Fatal("failed to load application state", zap.Error(err))
	}

	if *toggleTheme {
		theme, err := app.ToggleTheme()
		if err != nil {
			logger.Fatal("failed to persist theme", zap.Error(err))
		}
		fmt.Printf("Theme set to %s\n", theme)
		return
	}

	if *listFavorites {
		displayFavorites(app.Favorites())
		return
	}

	var directory geocode.Directory = geocode.NewClient(logger)
	var source forecast.Source = forecast.NewClient(logger)
	if *enableRateLimiting {
		// The public endpoints are free-tier; stay well below their limits
		// while allowing short interactive bursts.
		directory = geocode.NewRateLimitedDirectory(directory, 1.0, 5, logger)
		source = forecast.NewRateLimitedSource(source, 1.0, 5)
	}

	ctrl := dashboard.New(directory, source, app, locatorFromCoords(*latStr, *lonStr), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	city, ok := resolveCity(ctx, ctrl, directory, flag.Args())
	if !ok {
		os.Exit(1)
	}

	snap, err := ctrl.Select(ctx, city)
	if err != nil {
		logger.Error("forecast fetch failed", zap.String("city", city.Name), zap.Error(err))
		fmt.Println("Failed to fetch weather data. Please try again.")
		os.Exit(1)
	}

	displayCurrent(city, snap.Current, app.IsFavorite(city.ID))
	displayHourly(snap.Hourly, *hours)
	displayDaily(snap.Daily)

	if *save {
		if err := app.AddFavorite(city); err != nil {
			logger.Fatal("failed to save favorite", zap.Error(err))
		}
		fmt.Printf("\nSaved %s to favorites.\n", city.Name)
	}
}

// resolveCity picks the city to display: a name search when arguments were
// given, geolocation otherwise. Geolocation failure modes print distinct
// messages; a failed search prints "no results" since directory lookups
// never error outward.
func resolveCity(ctx context.Context, ctrl *dashboard.Controller, directory geocode.Directory, args []string) (models.City, bool) {
	if len(args) > 0 {
		query := strings.Join(args, " ")
		results := directory.SearchCities(ctx, query)
		if len(results) == 0 {
			fmt.Printf("No cities found for %q.\n", query)
			return models.City{}, false
		}
		return results[0], true
	}

	city, err := ctrl.Geolocate(ctx)
	switch {
	case errors.Is(err, dashboard.ErrGeolocationUnsupported):
		fmt.Println("Geolocation is not supported. Set -lat/-lon or search for a city.")
		return models.City{}, false
	case errors.Is(err, dashboard.ErrGeolocationUnavailable):
		fmt.Println("Unable to retrieve your location. Please grant permission or search for a city.")
		return models.City{}, false
	case err != nil:
		fmt.Printf("Geolocation failed: %v\n", err)
		return models.City{}, false
	}
	return city, true
}

// locatorFromCoords builds a fixed locator from configured coordinates, or
// nil when they are absent or unparseable.
func locatorFromCoords(latStr, lonStr string) dashboard.Locator {
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}
	return dashboard.FixedLocator{Latitude: lat, Longitude: lon}
}

func cityLabel(city models.City) string {
	parts := []string{city.Name}
	if city.Admin1 != "" {
		parts = append(parts, city.Admin1)
	}
	if city.Country != "" {
		parts = append(parts, city.Country)
	}
	return strings.Join(parts, ", ")
}

func displayCurrent(city models.City, cur presenter.Current, favorited bool) {
	header := fmt.Sprintf("Weather for %s:", cityLabel(city))
	if favorited {
		header += " [favorite]"
	}
	fmt.Printf("%s\n", header)
	fmt.Printf("%s\n", strings.Repeat("-", len(header)))
	fmt.Printf("Conditions:  %s\n", titleCaser.String(models.LookupWeatherCode(cur.WeatherCode).Description))
	fmt.Printf("Temperature: %.1f°C\n", cur.Temp)
	fmt.Printf("Feels Like:  %.1f°C\n", cur.FeelsLike)
	fmt.Printf("Humidity:    %.0f%%\n", cur.Humidity)
	fmt.Printf("Wind Speed:  %.1f km/h\n", cur.WindSpeed)
}

func displayFavorites(favorites []models.City) {
	if len(favorites) == 0 {
		fmt.Println("No saved favorites yet.")
		return
	}
	fmt.Println("Saved favorites:")
	for _, fav := range favorites {
		fmt.Printf("  %s (%.4f, %.4f)\n", cityLabel(fav), fav.Latitude, fav.Longitude)
	}
}

func displayHourly(hourly []presenter.HourlyEntry, n int) {
	if n < 0 {
		n = 0
	}
	if n > len(hourly) {
		n = len(hourly)
	}
	fmt.Println("\nHourly Forecast:")
	for _, h := range hourly[:n] {
		fmt.Printf("%5s: %5.1f°C  Precip: %3d%%  %s\n",
			h.DisplayTime, h.Temp, h.PrecipProb,
			titleCaser.String(models.LookupWeatherCode(h.WeatherCode).Description))
	}
}

func displayDaily(daily []presenter.DailyEntry) {
	fmt.Println("\n7-Day Forecast:")
	for _, d := range daily {
		fmt.Printf("%s %s: %-28s High: %5.1f°C. Low: %5.1f°C.\n",
			d.DayLabel, d.ShortDate,
			titleCaser.String(models.LookupWeatherCode(d.WeatherCode).Description),
			d.TempMax, d.TempMin)
	}
}

var titleCaser = cases.Title(language.English)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
