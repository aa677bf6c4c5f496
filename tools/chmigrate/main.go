// chmigrate applies the ClickHouse schema migrations in order. ClickHouse has
// no transactional DDL, so each statement is executed individually and the
// tool stops at the first failure.
//
// Usage: CLICKHOUSE_URL=clickhouse://localhost:9000 go run ./tools/chmigrate -dir migrations/clickhouse
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

func main() {
	dir := flag.String("dir", "migrations/clickhouse", "directory of .sql migration files")
	flag.Parse()

	url := os.Getenv("CLICKHOUSE_URL")
	if url == "" {
		log.Fatal("CLICKHOUSE_URL is required")
	}

	opts, err := clickhouse.ParseDSN(url)
	if err != nil {
		log.Fatalf("invalid CLICKHOUSE_URL: %v", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("clickhouse ping failed: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.Fatal(err)
	}
	sort.Strings(files)

	for _, file := range files {
		migration, err := os.ReadFile(file)
		if err != nil {
			log.Fatal(err)
		}

		statements := strings.Split(string(migration), ";")
		for i, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || strings.HasPrefix(stmt, "--") {
				continue
			}
			if err := conn.Exec(ctx, stmt); err != nil {
				log.Fatalf("%s statement %d failed: %v", filepath.Base(file), i+1, err)
			}
		}
		fmt.Printf("applied %s\n", filepath.Base(file))
	}
}
