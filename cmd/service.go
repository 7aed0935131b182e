package cmd

import (
	"net"
	"net/http"

	"github.com/isometry/ask-relay/internal/config"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("spawning...")

			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}

			s := newServer(rt)
			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}

func newServer(h http.Handler) *http.Server {
	logger.Debug("creating HTTP server...")
	mux := http.NewServeMux()
	mux.Handle(config.Service.Path, h)

	return &http.Server{
		Handler:      mux,
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}
}
