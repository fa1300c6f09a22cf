package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"propt-api-io/api/internal/config"
	"propt-api-io/api/internal/indexer"
	"propt-api-io/api/pkg/util"
)

func main() {
	var (
		action      = flag.String("action", "create", "Action: create, drop, list, stats, migrate, migrate-status, rollback")
		uri         = flag.String("uri", "", "MongoDB URI (defaults to env DATABASE_URL)")
		dbName      = flag.String("db", "", "Database name (defaults to env DATABASE_NAME)")
		collection  = flag.String("collection", "", "Collection name (for list/stats)")
		target      = flag.String("target", "", "Version to roll back to (for rollback)")
		timeout     = flag.Duration("timeout", 60*time.Second, "Operation timeout")
		continueErr = flag.Bool("continue-on-error", true, "Continue on error")
		skipExists  = flag.Bool("skip-if-exists", true, "Skip existing indexes")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
	)
	flag.Parse()

	log := util.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log = util.ConfigureLogger(cfg.LogLevel)
	if *uri != "" {
		cfg.MongoURI = *uri
	}
	if *dbName != "" {
		cfg.MongoDatabase = *dbName
	}

	client, err := util.ConnectDB(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Errorf("failed to disconnect: %v", err)
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	manager := indexer.ProptIndexes(indexer.NewManager(db, &indexer.Options{
		Timeout:         *timeout,
		ContinueOnError: *continueErr,
		SkipIfExists:    *skipExists,
	}))
	migrations := indexer.NewMigrationManager(db).AddMigration(indexer.ProptMigrations()...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *action {
	case "create":
		if !*jsonOutput {
			fmt.Printf("Creating indexes in database: %s\n", cfg.MongoDatabase)
		}

		result, err := manager.Create(ctx)
		if *jsonOutput {
			outputJSON(map[string]any{
				"success": err == nil,
				"result":  result,
				"error":   errorString(err),
			})
			return
		}
		if err != nil {
			log.Warnf("index creation completed with errors: %v", err)
		}
		fmt.Printf("\nResults:\n")
		fmt.Printf("  Success: %d\n", result.SuccessCount)
		fmt.Printf("  Failed: %d\n", result.FailedCount)
		fmt.Printf("  Duration: %v\n", result.Duration)
		if len(result.Failures) > 0 {
			fmt.Printf("\nFailures:\n")
			for _, f := range result.Failures {
				fmt.Printf("  - %s.%s: %v\n", f.Collection, f.IndexName, f.Error)
			}
		}

	case "drop":
		collections := flag.Args()
		err := manager.Drop(ctx, collections...)
		if *jsonOutput {
			outputJSON(map[string]any{"success": err == nil, "error": errorString(err)})
			return
		}
		if err != nil {
			log.Fatalf("failed to drop indexes: %v", err)
		}
		fmt.Println("Indexes dropped successfully")

	case "list":
		if *collection == "" {
			log.Fatal("collection name required for list action (-collection flag)")
		}
		indexes, err := manager.List(ctx, *collection)
		if err != nil {
			log.Fatalf("failed to list indexes: %v", err)
		}
		if *jsonOutput {
			outputJSON(indexes)
			return
		}
		fmt.Printf("Indexes for collection %s:\n", *collection)
		for _, idx := range indexes {
			fmt.Printf("  - %v\n    Keys: %v\n", idx["name"], idx["key"])
			if unique, ok := idx["unique"].(bool); ok && unique {
				fmt.Printf("    Unique: true\n")
			}
		}

	case "stats":
		stats := map[string][]indexer.IndexStats{}
		if *collection == "" {
			stats, err = manager.StatsAll(ctx)
		} else {
			stats[*collection], err = manager.Stats(ctx, *collection)
		}
		if err != nil {
			log.Fatalf("failed to get stats: %v", err)
		}
		if *jsonOutput {
			outputJSON(stats)
			return
		}
		for coll, collStats := range stats {
			fmt.Printf("\n=== %s ===\n", coll)
			for _, stat := range collStats {
				fmt.Printf("  %s:\n    Accesses: %d\n    Since: %v\n", stat.Name, stat.Accesses, stat.Since)
				if stat.Building {
					fmt.Printf("    Status: BUILDING\n")
				}
			}
		}

	case "migrate":
		if err := migrations.Run(ctx); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Println("Migrations applied")

	case "migrate-status":
		statuses, err := migrations.Status(ctx)
		if err != nil {
			log.Fatalf("failed to read migration status: %v", err)
		}
		if *jsonOutput {
			outputJSON(statuses)
			return
		}
		for _, s := range statuses {
			fmt.Printf("  %s  success=%t  applied=%s\n", s.Version, s.Success, s.AppliedAt.Format(time.RFC3339))
		}

	case "rollback":
		if *target == "" {
			log.Fatal("rollback needs -target")
		}
		if err := migrations.Rollback(ctx, *target); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("Rolled back to %s\n", *target)

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		fmt.Println("Available actions: create, drop, list, stats, migrate, migrate-status, rollback")
		os.Exit(1)
	}
}

func outputJSON(data any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		util.GetLogger().Fatalf("failed to encode JSON: %v", err)
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
