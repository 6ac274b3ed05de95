// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UCREL/HEC/internal/appconfig"
	"github.com/UCREL/HEC/internal/logging"
)

var (
	cfgFile       string
	configLoaded  bool
	currentConfig *appconfig.Config
	logger        = zerolog.Nop()
	closeLog      = func() error { return nil }
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "hec",
	Short:         "hec — paragraph-batched NER annotation and benchmarking",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		for _, name := range []string{"logFile", "logLevel"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		cfg := appconfig.Defaults()
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if configLoaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		currentConfig = &cfg

		if err := closeLog(); err != nil {
			return fmt.Errorf("close previous log file: %w", err)
		}
		log, closer, err := logging.New(logging.Options{
			Level:   cfg.LogLevel,
			Debug:   cfg.Debug,
			File:    cfg.LogFilePath(),
			Console: cmd.OutOrStdout(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger, closeLog = log, closer
		logger.Debug().Str("config", cfg.ConfigPath).Str("command", cmd.CommandPath()).Msg("configuration loaded")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file (default hec.log)")
	rootCmd.PersistentFlags().String("logLevel", "info", "log level: trace, debug, info, warn, error")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("logLevel"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.SetEnvPrefix("HEC")
	viper.AutomaticEnv()
}

// ensureConfigLoaded reads the config file. A missing file is not an error;
// flags and defaults apply instead.
func ensureConfigLoaded() error {
	configLoaded = false
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	configLoaded = true
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// Logger returns the logger built for the current command.
func Logger() zerolog.Logger { return logger }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
