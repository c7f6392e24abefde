package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/pricing"
)

type withStoreFunc = func(*cobra.Command, func(context.Context, *store) error) error

func newRatesCmd(withStore withStoreFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List and change per-class tariffs",
	}
	cmd.AddCommand(newRatesListCmd(withStore), newRatesSetCmd(withStore))
	return cmd
}

func newRatesListCmd(withStore withStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show stored tariffs, the active one per class first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, s *store) error {
				rates, err := s.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CLASS\tBASE\tPER_KM\tMINIMUM\tACTIVE")
				for _, r := range rates {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%t\n", r.VehicleClass, r.BaseFare, r.PerKmRate, r.MinimumFare, r.Active)
				}
				return tw.Flush()
			})
		},
	}
}

func newRatesSetCmd(withStore withStoreFunc) *cobra.Command {
	var (
		class                string
		base, perKm, minimum int64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a new active tariff for a vehicle class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc, ok := domain.ParseVehicleClass(class)
			if !ok {
				return fmt.Errorf("unknown vehicle class %q", class)
			}
			rate := domain.Rate{VehicleClass: vc, BaseFare: base, PerKmRate: perKm, MinimumFare: minimum, Active: true}
			if err := pricing.ValidateRate(rate); err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, s *store) error {
				if err := s.Activate(ctx, rate); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s tariff activated\n", vc)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "vehicle class (moto, moto_carguero)")
	cmd.Flags().Int64Var(&base, "base", 0, "base fare")
	cmd.Flags().Int64Var(&perKm, "per-km", 0, "price per kilometre")
	cmd.Flags().Int64Var(&minimum, "minimum", 0, "minimum fare")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func newQuoteCmd(withStore withStoreFunc) *cobra.Command {
	var (
		class string
		km    float64
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a job with the active tariff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc, ok := domain.ParseVehicleClass(class)
			if !ok {
				return fmt.Errorf("unknown vehicle class %q", class)
			}
			return withStore(cmd, func(ctx context.Context, s *store) error {
				q := pricing.NewEngine(s, logx.Nop(), 0).Quote(ctx, vc, km)
				fmt.Fprintf(cmd.OutOrStdout(), "class=%s distance_km=%.2f base=%d total=%d\n",
					q.VehicleClass, q.DistanceKm, q.BasePrice, q.TotalPrice)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "vehicle class (moto, moto_carguero)")
	cmd.Flags().Float64Var(&km, "km", 0, "distance in kilometres")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}
