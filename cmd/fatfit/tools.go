package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fatfit/internal/calorie"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/timer"
)

func newCaloriesCmd(a *app) *cobra.Command {
	var age, sex, height, weight, goal string

	cmd := &cobra.Command{
		Use:   "calories",
		Short: "Compute a daily calorie target (Mifflin-St Jeor)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := domain.Profile{
				Age:      calorie.ParseInt(age),
				HeightCm: calorie.ParseFloat(height),
				WeightKg: calorie.ParseFloat(weight),
				Sex:      domain.ParseSex(sex),
			}
			g := calorie.ConvertGoal(goal)

			kcal, err := calorie.Calories(p, g)
			if err != nil {
				return fmt.Errorf("age, height and weight must be numbers: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d kcal/day (goal: %s, BMR: %.2f)\n", kcal, g, calorie.BMR(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&age, "age", "", "age in years")
	cmd.Flags().StringVar(&sex, "sex", "", `"male" or anything else`)
	cmd.Flags().StringVar(&height, "height", "", "height in cm")
	cmd.Flags().StringVar(&weight, "weight", "", "weight in kg")
	cmd.Flags().StringVar(&goal, "goal", calorie.PhraseMaintain, "quiz goal phrase")
	for _, f := range []string{"age", "sex", "height", "weight"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newFoodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "foods <query>",
		Short: "Search FatSecret and print normalized foods as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.foodClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			foods, err := client.SearchFoods(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(foods)
		},
	}
}

func newResetTotalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-totals",
		Short: "Run the daily calorie-total reset once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			st, err := a.openStores(ctx)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			return timer.New(st.totals, a.log.Component("reset")).RunNow(ctx)
		},
	}
}
