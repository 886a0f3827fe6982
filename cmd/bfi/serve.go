package main

import (
	"github.com/deepnoodle-ai/bfi/serve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interpreter over HTTP",
		Long: `Serve runs an HTTP server exposing POST /v1/run, POST /v1/parse and
GET /health. Each run is bounded by a step limit and a request timeout.
The server shuts down gracefully on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("listen", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().Int64("step-limit", serve.DefaultMaxSteps, "Maximum operations per run")
	cmd.Flags().Duration("timeout", serve.DefaultTimeout, "Maximum duration of a request")
	viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	viper.BindPFlag("step-limit", cmd.Flags().Lookup("step-limit"))
	viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := serve.NewServer(serve.Config{
		MaxSteps: viper.GetInt64("step-limit"),
		Timeout:  viper.GetDuration("timeout"),
		Version:  version,
		Logger:   logger,
	})
	return srv.ListenAndServe(cmd.Context(), viper.GetString("listen"))
}
