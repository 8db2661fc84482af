package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweets9/SOC-ThreatViz/internal/api"
	"github.com/sweets9/SOC-ThreatViz/internal/config"
	"github.com/sweets9/SOC-ThreatViz/internal/database"
	dbmodels "github.com/sweets9/SOC-ThreatViz/internal/database/models"
	"github.com/sweets9/SOC-ThreatViz/internal/fswatcher"
	"github.com/sweets9/SOC-ThreatViz/internal/metrics"
	"github.com/sweets9/SOC-ThreatViz/internal/store"
	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")

	util.ParseFlags()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println(err)
		fmt.Println("Exiting...")
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// One store per dataset mode; webhooks write live, the UI reads test or
	// live. The default store backs unknown modes.
	stores := map[string]*store.ThreatStore{
		"":              newStore(cfg, "default", cfg.Data.CSVPath, m),
		config.ModeTest: newStore(cfg, config.ModeTest, cfg.Data.StorePath(config.ModeTest), m),
		config.ModeLive: newStore(cfg, config.ModeLive, cfg.Data.StorePath(config.ModeLive), m),
	}

	paths := []string{}
	for _, st := range stores {
		if err := st.Bootstrap(); err != nil {
			util.PrintError("Failed to bootstrap store " + st.Path() + ": " + err.Error())
			os.Exit(1)
		}
		paths = append(paths, st.Path())
	}

	var audit *database.DataStore[dbmodels.IngestAudit]
	if cfg.Audit.Enabled {
		db, err := database.InitAuditDB(cfg.Audit.DBPath)
		if err != nil {
			util.PrintError("Failed to open audit database: " + err.Error())
			os.Exit(1)
		}
		audit, err = database.NewDataStore[dbmodels.IngestAudit](db, dbmodels.INGEST_AUDITS)
		if err != nil {
			util.PrintError("Failed to init audit store: " + err.Error())
			os.Exit(1)
		}
	}

	// Keep the store gauges current, including when something outside this
	// process touches the files.
	refreshGauges(stores, m)
	watcher, err := fswatcher.Watch(paths, func(string) {
		refreshGauges(stores, m)
	})
	if err != nil {
		util.PrintWarning("Store file watcher unavailable: " + err.Error())
	} else {
		defer watcher.Close()
	}

	_, app := api.NewServer(cfg, stores, audit, m)

	util.PrintSuccess("SOC Global Threat Visualiser backend")
	util.PrintInfo("Listening on http://" + cfg.Server.ListenAddr())
	util.PrintInfo("CSV path: " + cfg.Data.CSVPath)

	go func() {
		if err := app.Listen(cfg.Server.ListenAddr()); err != nil {
			util.PrintError(err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	util.PrintInfo("Shutting down gracefully...")
	if err := app.Shutdown(); err != nil {
		util.PrintError("Shutdown error: " + err.Error())
	}
}

func newStore(cfg *config.Cfg, mode, path string, m *metrics.Metrics) *store.ThreatStore {
	st := store.NewThreatStore(path, cfg.Data.ExtendedSchema)
	st.OnPrune = func(pruned int) {
		m.PrunedTotal.WithLabelValues(mode).Add(float64(pruned))
	}
	st.OnDrop = func(dropped int) {
		m.DroppedRows.WithLabelValues(mode).Add(float64(dropped))
	}
	return st
}

func refreshGauges(stores map[string]*store.ThreatStore, m *metrics.Metrics) {
	for mode, st := range stores {
		stats, err := st.Stats()
		if err != nil {
			continue
		}
		if mode == "" {
			mode = "default"
		}
		m.SetStoreStats(mode, stats.Entries, stats.SizeBytes)
	}
}
