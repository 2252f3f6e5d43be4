// Command query runs a free-form SQL statement against the methane database
// and prints the result as an aligned text table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/methane-leak-etl/internal/observability"
	"github.com/couchcryptid/methane-leak-etl/internal/store"
)

func main() {
	dbPath := flag.String("db", "data/methane_project.db", "sqlite database path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: query [-db path] <sql>")
		os.Exit(2)
	}

	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	db, err := store.Open(*dbPath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	cols, rows, err := db.Query(context.Background(), flag.Arg(0))
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "%d rows\n", len(rows))
}
