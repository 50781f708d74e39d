package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/analytics"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/budget"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/goal"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/user"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Service *service.Service
}

type registrar interface {
	Register(api huma.API)
}

// Routes builds the mux serving /status and every /v1 operation.
func (r *Rest) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Ledger Server", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	handlers := []registrar{
		transaction.NewCreateTransactionHandler(svc.Ledger),
		transaction.NewListTransactionsHandler(svc.Ledger),
		transaction.NewGetTransactionHandler(svc.Ledger),
		transaction.NewAmendTransactionHandler(svc.Ledger),
		transaction.NewRemoveTransactionHandler(svc.Ledger),
		goal.NewCreateGoalHandler(svc.Goal),
		goal.NewReadGoalHandler(svc.Goal),
		goal.NewWriteGoalHandler(svc.Goal),
		budget.NewHandler(svc.Budget),
		analytics.NewHandler(svc.Analytics),
		user.NewHandler(svc.User),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve blocks until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
