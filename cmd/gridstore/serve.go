package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gridstore-core/internal/api"
	"github.com/nerrad567/gridstore-core/internal/fanout"
	"github.com/nerrad567/gridstore-core/internal/iidm"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/database"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/logging"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gridstore-core/internal/journal"
	"github.com/nerrad567/gridstore-core/internal/metrics"
	"github.com/nerrad567/gridstore-core/internal/registry"
	"github.com/nerrad567/gridstore-core/internal/sinks"
	"github.com/nerrad567/gridstore-core/migrations"
)

// newServeCommand creates the serve command.
func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	var networkPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and stream server",
		Long: `Run the component store until interrupted.

The optional --network file is registered before the listener starts, so
the store can be served pre-loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return run(cmd.Context(), cfg, networkPath)
		},
	}

	cmd.Flags().StringVarP(&networkPath, "network", "n", "", "IIDM JSON network to register at startup")
	return cmd
}

// run is the serve logic, separated from the command for testability.
// It returns nil on clean shutdown once ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, networkPath string) error {
	log := logging.New(cfg.Logging, version)
	log.Info("starting gridstore",
		"version", version,
		"commit", commit,
		"build_date", date,
		"server_id", cfg.Server.ID,
	)

	m := metrics.New()
	engine, err := buildEngine(cfg, log, m)
	if err != nil {
		return err
	}
	defer engine.Hub().Close()

	checks := make(map[string]api.HealthChecker)
	deps := api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Engine:   engine,
		Metrics:  m,
		Checks:   checks,
		Version:  version,
	}

	// Update journal (optional)
	if cfg.Journal.Enabled {
		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("database ready", "path", cfg.Database.Path)

		j := journal.New(db.DB)
		j.SetLogger(log)
		engine.AddSink(j)
		deps.History = j
		checks["database"] = db

		go j.RunRetention(ctx, cfg.GetJournalRetention(), time.Duration(cfg.Journal.PruneInterval)*time.Minute)
	} else {
		log.Info("update journal disabled")
	}

	// MQTT state publishing and inbound updates (optional)
	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		engine.AddSink(sinks.NewMQTTSink(mqttClient, mqttClient.Topics(), mqttClient.QoS()))

		listener := sinks.NewUpdateListener(mqttClient, mqttClient.Topics(), mqttClient.QoS(), engine)
		listener.SetLogger(log)
		if err := listener.Start(); err != nil {
			return fmt.Errorf("starting MQTT update listener: %w", err)
		}
		defer func() {
			if stopErr := listener.Stop(); stopErr != nil {
				log.Warn("error stopping MQTT update listener", "error", stopErr)
			}
		}()
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB telemetry (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		engine.AddSink(sinks.NewInfluxSink(influxClient))
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	if networkPath != "" {
		n, err := preload(ctx, engine, networkPath)
		if err != nil {
			return err
		}
		log.Info("network preloaded", "path", networkPath, "records", n)
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order: API server (which closes
	// the hub first so open streams end), InfluxDB, MQTT listener, MQTT,
	// database. The hub close deferred above is then a no-op.
	return nil
}

// buildEngine creates the fan-out hub and the engine over the full IIDM catalog.
// log and m may be nil for offline use.
func buildEngine(cfg *config.Config, log *logging.Logger, m *metrics.Metrics) (*registry.Engine, error) {
	hub := fanout.NewHub(fanout.Config{
		Capacity:  cfg.Stream.Capacity,
		KeepAlive: cfg.GetStreamKeepAlive(),
	})
	catalog, err := iidm.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	engine, err := registry.NewEngine(catalog, hub)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if log != nil {
		hub.SetLogger(log)
		engine.SetLogger(log)
	}
	if m != nil {
		hub.SetObserver(m)
		engine.SetObserver(m)
	}
	return engine, nil
}

// preload registers the network stored at path.
func preload(ctx context.Context, engine *registry.Engine, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening network: %w", err)
	}
	defer f.Close()

	n, err := iidm.DecodeNetwork(f)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	ids, err := engine.Register(ctx, n)
	if err != nil {
		return 0, fmt.Errorf("registering %s: %w", path, err)
	}
	return len(ids), nil
}
