package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	remixhttp "github.com/mhpenta/remix/internal/transport/http"
	"github.com/mhpenta/remix/session"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the remix session over HTTP",
		Args:    cobra.NoArgs,
		PreRunE: a.requireCredentials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(a.logger, gen)

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			sess := session.New(gen,
				session.WithLogger(a.logger),
				session.WithTimeout(a.cfg.Gemini.RequestTimeout),
			)
			srv, err := remixhttp.NewServer(remixhttp.ServerConfig{
				Addr:    addr,
				Session: sess,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
