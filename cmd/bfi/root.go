package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// logger is configured from the global flags before any subcommand runs.
var logger = zerolog.Nop()

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bfi",
		Short: "Parse and interpret programs for the eight-operator tape language",
		Long: `bfi parses programs written with the operators > < + - . , [ ]
into a tree, one subtree per loop body, and interprets them against an
unbounded byte tape. Every other character is a comment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			return processGlobalFlags(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.bfi.yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("no-color", flags.Lookup("no-color"))
	viper.BindPFlag("log-level", flags.Lookup("log-level"))

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAstCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// initConfig reads in a config file and ENV variables if set.
func initConfig() error {
	viper.SetEnvPrefix("bfi")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		// Without a home directory there is no default config to read.
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".bfi")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func processGlobalFlags(cmd *cobra.Command) error {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	l, err := newLogger(cmd.ErrOrStderr(), viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger = l
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug().Str("path", used).Msg("using config file")
	}
	return nil
}

// newLogger returns a console logger tagged with a fresh run_id.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	if lvl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
	}
	runID, err := uuid.NewV4()
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("generating run id: %w", err)
	}
	output := zerolog.ConsoleWriter{Out: w, NoColor: !useColor(w)}
	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("run_id", runID.String()).
		Logger(), nil
}
