package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fatfit/internal/aiplan"
	"github.com/hammamikhairi/fatfit/internal/auth"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/httpapi"
	"github.com/hammamikhairi/fatfit/internal/quiz"
	"github.com/hammamikhairi/fatfit/internal/timer"
	"github.com/hammamikhairi/fatfit/internal/tracker"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the daily reset scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		a.log.Error("refusing to start: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := a.openStores(connectCtx)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			a.log.Warn("closing storage: %v", err)
		}
	}()

	tokens, err := auth.NewTokens(a.cfg.Auth.JWTSecret, auth.WithTTL(a.cfg.Auth.TokenTTL))
	if err != nil {
		return err
	}
	foods, err := a.foodClient()
	if err != nil {
		return err
	}
	quizJSON, err := quiz.Load(a.cfg.QuizPath)
	if err != nil {
		return err
	}

	opts := []tracker.Option{
		tracker.WithSearch(foods),
		tracker.WithTokens(tokens),
	}
	plans, err := aiplan.NewClient(a.cfg.AI.BaseURL, a.cfg.AI.APIKey, a.log.Component("aiplan"),
		aiplan.WithHTTPTimeout(a.cfg.AI.Timeout))
	var cfgErr *domain.ConfigurationError
	switch {
	case err == nil:
		cache := aiplan.NewPlanCache(a.cfg.AI.PlanCacheTTL, a.log.Component("aiplan"))
		opts = append(opts, tracker.WithPlans(plans, cache))
	case errors.As(err, &cfgErr):
		a.log.Warn("AI plans disabled: %v", err)
	default:
		return err
	}

	svc := tracker.New(tracker.Stores{
		Users:   st.users,
		Answers: st.answers,
		FoodLog: st.foodLog,
		Totals:  st.totals,
	}, a.log.Component("tracker"), opts...)

	scheduler := timer.New(st.totals, a.log.Component("reset"), timer.WithSpec(a.cfg.Reset.Spec))
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	api := httpapi.New(svc, tokens, quizJSON, a.log.Component("http"),
		httpapi.WithAllowedOrigins(a.cfg.Server.AllowedOrigins),
		httpapi.WithSecureCookies(a.cfg.Auth.CookieSecure),
	)
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server running on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
