// Command leakmap renders Leaflet HTML maps of recorded methane observations,
// one file per city.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/couchcryptid/methane-leak-etl/internal/leakmap"
	"github.com/couchcryptid/methane-leak-etl/internal/observability"
	"github.com/couchcryptid/methane-leak-etl/internal/store"
)

func main() {
	city := flag.String("city", "", "city to render; omit to render every city")
	dbPath := flag.String("db", envOrDefault("DB_PATH", "data/methane_project.db"), "sqlite database path")
	outDir := flag.String("out", envOrDefault("MAP_OUT_DIR", "html"), "output directory for map files")
	flag.Parse()

	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(*dbPath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	renderer := leakmap.NewRenderer(db, *outDir, logger)

	if *city == "" {
		paths, err := renderer.RenderAll(ctx)
		if err != nil {
			logger.Error("render failed", "error", err)
			os.Exit(1)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}

	chosen, err := resolveCity(ctx, db, *city, os.Stdin)
	if err != nil {
		logger.Error("city selection failed", "error", err)
		os.Exit(1)
	}

	path, err := renderer.RenderCity(ctx, chosen)
	if err != nil {
		logger.Error("render failed", "city", chosen, "error", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveCity matches the requested city against the cities present in the
// data, ignoring case. On a miss it lists the valid names and re-prompts
// until the input matches or stdin closes.
func resolveCity(ctx context.Context, db *store.Store, requested string, in *os.File) (string, error) {
	cities, err := db.Cities(ctx)
	if err != nil {
		return "", err
	}
	if len(cities) == 0 {
		return "", fmt.Errorf("no cities recorded yet")
	}

	scanner := bufio.NewScanner(in)
	for {
		idx := slices.IndexFunc(cities, func(c string) bool {
			return strings.EqualFold(c, strings.TrimSpace(requested))
		})
		if idx >= 0 {
			return cities[idx], nil
		}

		fmt.Printf("unknown city %q; available cities:\n", requested)
		for _, c := range cities {
			fmt.Printf("  %s\n", c)
		}
		fmt.Print("city: ")
		if !scanner.Scan() {
			return "", fmt.Errorf("no matching city selected")
		}
		requested = scanner.Text()
	}
}
