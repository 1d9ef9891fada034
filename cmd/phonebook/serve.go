package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.appointy.com/phonebook"
	"go.appointy.com/phonebook/auth"
	"go.appointy.com/phonebook/config"
	"go.appointy.com/phonebook/contacts"
	"go.appointy.com/phonebook/metrics"
	"go.appointy.com/phonebook/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the GraphQL server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// app is everything serve opens, in the order it must be closed.
type app struct {
	store   *store.Store
	codec   *auth.Codec
	handler http.Handler
}

func newApp(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*app, error) {
	st, err := store.Open(ctx, cfg.StoreURL)
	if err != nil {
		return nil, err
	}

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret), auth.WithCacheSize(cfg.TokenCacheSize))
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	a := &app{store: st, codec: codec}
	a.handler, err = newRouter(cfg, contacts.NewServer(st, codec), reg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	a.codec.Close()
	if err := a.store.Close(ctx); err != nil {
		glog.Errorf("Closing store: %v", err)
	}
}

func newRouter(cfg *config.Config, s *contacts.Server, reg *prometheus.Registry) (http.Handler, error) {
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	gql, err := s.GraphqlHandler(phonebook.WithMiddlewares(phonebook.LogRequests, m.Middleware))
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Handle("/graphql", gql)
	r.Handle("/metrics", metrics.Handler(reg)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if cfg.Playground {
		r.Handle("/", phonebook.PlaygroundHandler("Phonebook", "/graphql")).Methods(http.MethodGet, http.MethodHead)
	}
	return r, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("Server ready at http://%s/graphql", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		err = errors.Wrap(err, "serving http")
	case <-ctx.Done():
		glog.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			err = errors.Wrap(serr, "shutting down http server")
		}
	}

	a.close(context.Background())
	return err
}
