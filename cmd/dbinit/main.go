package main

import (
	"context"
	"flag"
	"log"

	"github.com/6045054-web/CHENGHUI/internal/config"
	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "config file")
	migrate := flag.Bool("migrate", false, "create or upgrade the SQL schema")
	seed := flag.Bool("seed", false, "insert the default project and leader account")
	rehash := flag.Bool("rehash", false, "replace plaintext passwords with bcrypt hashes")
	leaderUser := flag.String("leader-username", "admin", "seed leader username")
	leaderPass := flag.String("leader-password", "", "seed leader password (required with -seed)")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	ctx := context.Background()

	var store gateway.Store
	var rest *gateway.Rest
	if cfg.Backend.Driver == config.DriverREST {
		if *migrate {
			log.Fatal("-migrate needs a mysql or postgres backend")
		}
		rest = gateway.NewRest(cfg.Backend.REST.BaseURL, cfg.Backend.REST.APIKey, cfg.RESTTimeout())
		store = rest
	} else {
		db, err := cfg.OpenGormDB()
		if err != nil {
			log.Fatal("db connect failed:", err)
		}
		// Step 1: schema
		if *migrate {
			if err := gateway.Migrate(db); err != nil {
				log.Fatal("migrate failed:", err)
			}
			logger.Info("schema migrated", "driver", cfg.Backend.Driver)
		}
		store = gateway.NewSQLStore(db)
	}

	// Step 2: base data
	if *seed {
		if *leaderPass == "" {
			log.Fatal("-seed needs -leader-password")
		}
		if err := seedBase(ctx, store, cfg.Field.DefaultProjectID, *leaderUser, *leaderPass); err != nil {
			log.Fatal("seed failed:", err)
		}
	}

	// Step 3: legacy passwords
	if *rehash {
		n, err := rehashPasswords(ctx, store, rest)
		if err != nil {
			log.Fatal("rehash failed:", err)
		}
		logger.Info("passwords rehashed", "count", n)
	}

	logger.Info("=== all done ===")
}
