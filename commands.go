package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/gateway"
	"github.com/carson-networks/ledger-server/internal/notifier"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/scheduler"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// app is everything serve and job share.
type app struct {
	storage   *storage.Storage
	operator  *operator.OperatorDelegator
	service   *service.Service
	scheduler *scheduler.Scheduler
	closers   []func()
}

func (r *app) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func buildApp() (*app, error) {
	r := &app{}

	if env.DataBackend == config.BackendPostgres {
		result, err := storage.RunMigrations(env)
		if err != nil {
			return nil, err
		}
		logger.WithField("version", result.PostMigrationVersion).Info("Storage.Migrate.Complete")
	}

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, err
	}
	r.storage = store
	r.closers = append(r.closers, func() { _ = store.Close() })

	r.operator = operator.NewOperatorDelegator(store, env.OperatorWorkers, env.OperatorMaxRetries, logger)
	r.operator.Start()
	r.closers = append(r.closers, r.operator.Stop)

	loc := env.Location()
	r.service = service.NewService(store, r.operator, loc)

	sender, err := gateway.NewSender(env, logger)
	if err != nil {
		r.close()
		return nil, err
	}
	if c, ok := sender.(gateway.Closer); ok {
		r.closers = append(r.closers, func() { _ = c.Close() })
	}

	evaluator := notifier.NewEvaluator(store, r.operator, r.service.Spend, sender, loc, env.OperatorWorkers, logger)
	r.scheduler = scheduler.NewScheduler(loc, logger)

	jobs := []struct {
		name string
		spec string
		run  scheduler.Job
	}{
		{scheduler.JobBudgetCheck, env.BudgetCheckSchedule, func(ctx context.Context) error {
			_, err := evaluator.BudgetPass(ctx)
			return err
		}},
		{scheduler.JobGoalCheck, env.GoalCheckSchedule, func(ctx context.Context) error {
			_, err := evaluator.GoalPass(ctx)
			return err
		}},
	}
	for _, job := range jobs {
		if err := r.scheduler.Register(job.name, job.spec, job.run); err != nil {
			r.close()
			return nil, err
		}
	}

	return r, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the threshold scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := buildApp()
			if err != nil {
				return err
			}
			defer r.close()

			r.scheduler.Start()
			defer r.scheduler.Stop()

			rest := api.Rest{
				Logger:  logger,
				Port:    env.Port,
				Storage: r.storage,
				Service: r.service,
			}
			return rest.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("port", "", "HTTP port")
	_ = v.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if env.DataBackend != config.BackendPostgres {
				return fmt.Errorf("migrate requires DATA_BACKEND=%s", config.BackendPostgres)
			}

			result, err := storage.RunMigrations(env)
			if err != nil {
				return err
			}
			logger.WithField("preMigrationVersion", result.PreMigrationVersion).
				WithField("postMigrationVersion", result.PostMigrationVersion).
				Info("Migration status")
			return nil
		},
	}
}

func jobCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "job <" + scheduler.JobBudgetCheck + "|" + scheduler.JobGoalCheck + ">",
		Short:     "Run one threshold pass now and exit",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{scheduler.JobBudgetCheck, scheduler.JobGoalCheck},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildApp()
			if err != nil {
				return err
			}
			defer r.close()

			return r.scheduler.Trigger(cmd.Context(), args[0])
		},
	}
}
