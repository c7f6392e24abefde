package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/repository"
)

const envPrefix = "DISPATCHCTL"

// rateStore is the slice of the rate repository the CLI needs.
type rateStore interface {
	Active(ctx context.Context, class domain.VehicleClass) (domain.Rate, error)
	List(ctx context.Context) ([]domain.Rate, error)
	Activate(ctx context.Context, rate domain.Rate) error
}

type store struct {
	rateStore
	migrate func(ctx context.Context) error
	close   func()
}

type storeOpener func(ctx context.Context, dsn string) (*store, error)

func defaultStoreOpener(ctx context.Context, dsn string) (*store, error) {
	pool, err := repository.NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &store{
		rateStore: repository.NewRateRepo(pool),
		migrate:   func(ctx context.Context) error { return repository.Migrate(ctx, pool) },
		close:     pool.Close,
	}, nil
}

func newRootCmd(open storeOpener) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "Administer dispatch tariffs and price jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("dsn", config.DefaultDB().DSN(), "postgres connection string")
	root.PersistentFlags().Duration("timeout", 5*time.Second, "timeout for each database call")
	_ = v.BindPFlag("dsn", root.PersistentFlags().Lookup("dsn"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	withStore := func(cmd *cobra.Command, fn func(ctx context.Context, s *store) error) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
		defer cancel()

		s, err := open(ctx, v.GetString("dsn"))
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer s.close()
		return fn(ctx, s)
	}

	root.AddCommand(
		newRatesCmd(withStore),
		newQuoteCmd(withStore),
		newMigrateCmd(withStore),
	)
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

func newMigrateCmd(withStore withStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, s *store) error {
				if err := s.migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}
}
