package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"weatherdash/geocode"
)

func main() {
	fmt.Println("City Directory Client Example")
	fmt.Println("=============================")

	rps := flag.Float64("rps", 1.0, "Directory requests per second")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var directory geocode.Directory = geocode.NewClient(logger)
	directory = geocode.NewRateLimitedDirectory(directory, *rps, 3, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A one-rune query returns immediately without touching the network.
	fmt.Println("\nSearching for \"L\" (too short, no network call)...")
	fmt.Printf("Results: %d\n", len(directory.SearchCities(ctx, "L")))

	for _, query := range []string{"London", "Paris", "Springfield"} {
		fmt.Printf("\nSearching for %q...\n", query)
		for i, city := range directory.SearchCities(ctx, query) {
			fmt.Printf("  %d. %s, %s, %s (%.4f, %.4f)\n",
				i+1, city.Name, city.Admin1, city.Country, city.Latitude, city.Longitude)
		}
	}

	fmt.Println("\nReverse geocoding 51.5, -0.12...")
	city := directory.ReverseGeocode(ctx, 51.5, -0.12)
	fmt.Printf("  Resolved to: %s, %s (id %d)\n", city.Name, city.Country, city.ID)
}
