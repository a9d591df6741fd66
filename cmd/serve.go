package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/tinoosan/fanbase/internal/httpapi/v1"
)

func serveCommand() *cobra.Command {
	var trustActorHeader bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
	}
	cmd.Flags().BoolVar(&trustActorHeader, "trust-actor-header", false, "accept "+httpapi.ActorHeader+" from a fronting gateway")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		a, err := open(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		auth := httpapi.Auth{
			Secret:           a.cfg.JWTSecret,
			Issuer:           a.cfg.JWTIssuer,
			Audience:         a.cfg.JWTAudience,
			TrustActorHeader: trustActorHeader,
		}
		deps := httpapi.NewDeps(a.provider, a.run, a.provider)
		srv := &http.Server{
			Addr:              a.cfg.ListenAddress,
			Handler:           httpapi.New(deps, auth, a.log).Handler(),
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info(programName+" service listening", "addr", srv.Addr, "backend", a.provider.Kind())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-cmd.Context().Done():
			ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctxShutdown); err != nil {
				a.log.Error("server shutdown error", "err", err)
			}
			return nil
		case err := <-errCh:
			a.log.Error("server error", "err", err)
			return err
		}
	}
	return cmd
}
