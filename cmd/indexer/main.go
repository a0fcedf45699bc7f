package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/config"
	"github.com/goran-ethernal/TicketIndexor/internal/contentstore"
	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/indexer"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/goran-ethernal/TicketIndexor/internal/migrations"
	"github.com/goran-ethernal/TicketIndexor/internal/rpc"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/api"
	pkgconfig "github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║           TicketIndexor v%s             ║
║   Ticket Marketplace Event Indexer        ║
╚═══════════════════════════════════════════╝
`
)

// exit codes
const (
	exitFailure       = 1
	exitConfiguration = 2
)

var (
	configPath string
	envFiles   []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, common.ErrConfiguration) {
			os.Exit(exitConfiguration)
		}
		os.Exit(exitFailure)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "TicketIndexor - ticket marketplace event indexer",
	Long: `TicketIndexor follows the AdminRegistry, EventRegistry and OfferRegistry contracts
of the ticket resale marketplace, resolves the metadata their events reference and keeps
a queryable projection of accounts, events and offers up to date.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runIndexer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (yaml, json or toml); environment only when empty")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"dotenv files to load before reading the environment (default .env)")

	rootCmd.AddCommand(migrateCmd, checkpointCmd, eventsCmd, schemaCmd, metadataCmd, verifyCmd)
}

func loadConfig() (*pkgconfig.Config, error) {
	cfg, err := config.Load(configPath, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens and migrates the projection database.
func openStore(cfg *pkgconfig.Config) (*store.Store, db.Maintenance, func(), error) {
	log := logger.NewComponentLoggerFromConfig(common.ComponentProjectionStore, cfg.Logging)

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create database: %w", err)
	}

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(log, database); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	maint := db.NewMaintenanceCoordinator(
		cfg.DB.Path,
		database,
		cfg.Maintenance,
		logger.NewComponentLoggerFromConfig(common.ComponentMaintenance, cfg.Logging),
	)

	st, err := store.New(database, maint, log)
	if err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to create projection store: %w", err)
	}

	return st, maint, func() { database.Close() }, nil
}

func runIndexer(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewComponentLoggerFromConfig(common.ComponentIndexer, cfg.Logging)
	defer func() { _ = log.Sync() }()

	log.Infof("Connecting to %s node...", cfg.Chain.Network)
	client, err := rpc.NewClient(ctx, cfg.Chain.RPCURL, cfg.Chain.Retry,
		logger.NewComponentLoggerFromConfig(common.ComponentChainClient, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to query chain id: %w", err)
	}
	log.Infof("Connected to chain %s (network %s)", chainID, cfg.Chain.Network)

	st, maint, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	content, err := contentstore.NewClient(cfg.ContentStore,
		logger.NewComponentLoggerFromConfig(common.ComponentContentStore, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create content store client: %w", err)
	}

	svc, err := indexer.New(cfg, client, st, content, log)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer svc.Close()

	if err := maint.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}
	defer func() {
		if err := maint.Stop(); err != nil {
			log.Warnf("Failed to stop database maintenance: %v", err)
		}
	}()

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log.WithComponent("metrics"))
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.API != nil && cfg.API.Enabled {
		apiServer, err := api.NewServer(cfg.API, api.NewStoreProjection(st),
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging))
		if err != nil {
			return fmt.Errorf("failed to create API server: %w", err)
		}
		g.Go(func() error { return apiServer.Start(gctx) })
	}

	log.Info("Starting TicketIndexor...")
	g.Go(func() error { return svc.Run(gctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("indexer failed: %w", err)
	}

	log.Info("TicketIndexor stopped successfully")
	return nil
}
