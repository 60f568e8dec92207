package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/launcher"
)

var logsFollow bool

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the Freqtrade stack in detached mode",
	Long: `Create the log directory if needed and start the configured compose
service with docker compose up -d. The docker compose exit code is propagated
as the process exit code.`,
	RunE: runUp,
}

// downCmd represents the down command
var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the Freqtrade stack",
	RunE:  runDown,
}

// restartCmd represents the restart command
var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the Freqtrade service",
	RunE:  runRestart,
}

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show Freqtrade container logs",
	RunE:  runLogs,
}

// psCmd represents the ps command
var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "Show container status for the stack",
	RunE:  runPS,
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(psCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Close()

	l := launcher.New(newRunner(cfg), launcher.Options{
		LogDir:      cfg.LogDir,
		Service:     cfg.Service,
		APIEndpoint: cfg.API.URL,
		APIUsername: cfg.API.Username,
		APIPassword: cfg.API.Password,
	}, log)

	code, err := l.Launch(cmd.Context())
	if err != nil {
		log.Error("Deployment failed", map[string]interface{}{"error": err.Error()})
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return composeResult(compose.Down(cmd.Context(), newRunner(cfg)))
}

func runRestart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return composeResult(compose.Restart(cmd.Context(), newRunner(cfg), cfg.Service))
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var extra []string
	if logsFollow {
		extra = append(extra, "-f")
	}
	extra = append(extra, cfg.Service)
	return composeResult(compose.Logs(cmd.Context(), newRunner(cfg), extra...))
}

func runPS(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return composeResult(compose.PS(cmd.Context(), newRunner(cfg)))
}

// composeResult maps a compose invocation result onto the process exit code
func composeResult(res compose.Result) error {
	if res.Code != 0 {
		return &exitError{code: res.Code}
	}
	return res.Err
}
