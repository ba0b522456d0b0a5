package main

import (
	"context"

	"github.com/MiniduTH/vitalink-sub001/config"
	"github.com/MiniduTH/vitalink-sub001/config/db"
	"github.com/MiniduTH/vitalink-sub001/logger"
	"github.com/MiniduTH/vitalink-sub001/migrations"
	"github.com/MiniduTH/vitalink-sub001/server"
	"github.com/MiniduTH/vitalink-sub001/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	startServer  = server.Start
	connectMongo = db.Connect
	isTest       = false
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatalln("Error from command: ", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vitalink",
		Short:        "Hospital appointments, billing and insurance API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the http api and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load hospital, departments and staff reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedData(cmd.Context(), seedFile)
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "yaml seed file (built-in data when empty)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create mongo indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context())
		},
	}

	root.AddCommand(serveCmd, seedCmd, migrateCmd)
	return root
}

func setup(ctx context.Context) (*config.Config, *mongo.Client, *mongo.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Println("Error from config.Load: ", err)
		return nil, nil, nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	client, database, err := connectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, client, database, nil
}

func run(ctx context.Context) error {
	cfg, client, database, err := setup(ctx)
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, cfg, database)
	if err != nil {
		db.Disconnect(client)
		return err
	}

	defaultopts := server.GetDefaultOptions()
	options := server.Options{
		WebServerEnabled:    defaultopts.WebServerEnabled,
		WebServerPort:       cfg.Port,
		WebServerPreHandler: a.routes,

		JobsEnabled: cfg.JobsEnabled && !isTest,
		JobsHandler: func() {
			if isTest {
				return
			}
			if err := a.scheduler.Start(); err != nil {
				log.Println("Error from scheduler.Start: ", err)
			}
		},

		MigrationEnabled: !isTest,
		MigrationHandler: func() error {
			if isTest {
				return nil
			}
			return migrations.Run(ctx, database)
		},

		ShutdownHandler: func() {
			a.scheduler.Stop()
			a.close()
			db.Disconnect(client)
		},
		ShutdownTimeout: defaultopts.ShutdownTimeout,
	}
	startServer(options)
	return nil
}

func seedData(ctx context.Context, file string) error {
	cfg, client, database, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(client)
	a, err := buildApp(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer a.close()

	data := services.DefaultSeedData()
	if file != "" {
		if data, err = services.LoadSeedData(file); err != nil {
			return err
		}
	}
	return a.staff.Seed(ctx, data)
}

func runMigrations(ctx context.Context) error {
	_, client, database, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(client)
	return migrations.Run(ctx, database)
}
