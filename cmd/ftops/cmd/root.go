package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/config"
	"github.com/psantana5/freqtrade-ops/internal/logging"
)

var (
	cfgFile      string
	outputFormat string
	composeFile  string
	dryRun       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ftops",
	Short: "Deployment and monitoring tool for a Freqtrade trading stack",
	Long: `ftops manages a Docker Compose based Freqtrade deployment: it starts and
stops the stack, monitors the portfolio with technical analysis indicators and
forwards trading signals to the sentiment backend webhook.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code through cobra's error path, used to
// propagate docker compose exit codes unmodified
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ftops/ftops.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&composeFile, "compose-file", "", "docker compose file (default docker-compose.yml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print docker compose commands instead of executing them")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".ftops"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("ftops")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FTOPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig resolves the full configuration, with flags taking precedence
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if composeFile != "" {
		cfg.ComposeFile = composeFile
	}
	return cfg, nil
}

// newRunner builds the docker compose runner for the resolved config
func newRunner(cfg *config.Config) *compose.DockerRunner {
	r := compose.NewDockerRunner(cfg.ComposeFile)
	r.DryRun = dryRun
	return r
}

// newLogger builds the CLI logger from the resolved config
func newLogger(cfg *config.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.ToFile {
		log, err := logging.NewFileLogger(cfg.LogDir, "ftops", level, cfg.Log.JSON)
		if err == nil {
			return log
		}
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}
	return logging.New(level, cfg.Log.JSON)
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
