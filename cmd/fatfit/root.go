package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fatfit/internal/config"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/fatsecret"
	"github.com/hammamikhairi/fatfit/internal/logger"
	"github.com/hammamikhairi/fatfit/internal/storage"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "fatfit",
		Short:        "FatFit nutrition and fitness tracking API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cmd, cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "YAML config file (default $FATFIT_CONFIG)")
	cmd.PersistentFlags().Bool("verbose", false, "enable verbose/debug logging")
	cmd.PersistentFlags().Bool("quiet", false, "disable all logging")

	cmd.AddCommand(
		newServeCmd(a),
		newCaloriesCmd(a),
		newFoodsCmd(a),
		newResetTotalsCmd(a),
	)
	return cmd
}

func newLogger(cmd *cobra.Command, cfg *config.Config, out io.Writer) *logger.Logger {
	level := logger.ParseLevel(cfg.Logging.Level)
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = logger.LevelVerbose
	}
	if q, _ := cmd.Flags().GetBool("quiet"); q {
		level = logger.LevelOff
	}

	var opts []logger.Option
	if cfg.Logging.JSON {
		opts = append(opts, logger.WithJSON())
	}
	return logger.New(level, out, opts...)
}

// stores bundles the four persistence ports with a close function.
type stores struct {
	users   domain.UserStore
	answers domain.AnswerStore
	foodLog domain.FoodLogStore
	totals  domain.TotalStore
	close   func(context.Context) error
}

// openStores connects to MongoDB, or falls back to memory when no URI is set.
func (a *app) openStores(ctx context.Context) (*stores, error) {
	log := a.log.Component("storage")
	if a.cfg.Mongo.URI == "" {
		log.Warn("MONGO_URI not set, using in-memory storage (data is lost on exit)")
		mem := storage.NewMemory(log)
		return &stores{
			users:   mem.Users,
			answers: mem.Answers,
			foodLog: mem.FoodLog,
			totals:  mem.Totals,
			close:   func(context.Context) error { return nil },
		}, nil
	}

	m, err := storage.OpenMongo(ctx, a.cfg.Mongo.URI, a.cfg.Mongo.Database, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:   m.Users,
		answers: m.Answers,
		foodLog: m.FoodLog,
		totals:  m.Totals,
		close:   m.Close,
	}, nil
}

// foodClient wires the token cache and the search client.
func (a *app) foodClient() (*fatsecret.Client, error) {
	exchanger, err := fatsecret.NewCredentialsExchanger(fatsecret.Credentials{
		ClientID:     a.cfg.FatSecret.ClientID,
		ClientSecret: a.cfg.FatSecret.ClientSecret,
		TokenURL:     a.cfg.FatSecret.TokenURL,
	}, nil)
	if err != nil {
		return nil, err
	}

	log := a.log.Component("fatsecret")
	tokens := fatsecret.NewTokenCache(exchanger, log)

	var opts []fatsecret.ClientOption
	if a.cfg.FatSecret.BaseURL != "" {
		opts = append(opts, fatsecret.WithBaseURL(a.cfg.FatSecret.BaseURL))
	}
	return fatsecret.NewClient(tokens, log, opts...), nil
}
