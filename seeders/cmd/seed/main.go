package main

import (
	"flag"
	"log"

	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/seeders"
)

func main() {
	runCore := flag.Bool("core", false, "seed teams, users and equipment")
	runDemo := flag.Bool("demo", false, "seed sample maintenance requests")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runCore && !*runDemo && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runCore || *runAll {
		seeders.SeedCore(dbPool)
	}
	if *runDemo || *runAll {
		seeders.SeedDemo(dbPool)
	}
}
