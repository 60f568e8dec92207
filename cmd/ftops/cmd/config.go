package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Print the effective configuration after merging defaults, the config
file, environment variables and flags. The API password is redacted.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and compose file",
	Long: `Check the resolved configuration for invalid values and verify that
the compose file exists and defines the configured service.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

type configView struct {
	ComposeFile string               `json:"compose_file" yaml:"compose_file"`
	Service     string               `json:"service" yaml:"service"`
	LogDir      string               `json:"log_dir" yaml:"log_dir"`
	API         apiView              `json:"api" yaml:"api"`
	Monitor     config.MonitorConfig `json:"monitor" yaml:"monitor"`
	Store       config.StoreConfig   `json:"store" yaml:"store"`
	Log         config.LogConfig     `json:"log" yaml:"log"`
}

type apiView struct {
	URL      string `json:"url" yaml:"url"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view := configView{
		ComposeFile: cfg.ComposeFile,
		Service:     cfg.Service,
		LogDir:      cfg.LogDir,
		API: apiView{
			URL:      cfg.API.URL,
			Username: cfg.API.Username,
			Password: "********",
		},
		Monitor: cfg.Monitor,
		Store:   cfg.Store,
		Log:     cfg.Log,
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	output, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Print(string(output))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := compose.ValidateService(cfg.ComposeFile, cfg.Service); err != nil {
		return fmt.Errorf("compose file invalid: %w", err)
	}

	fmt.Printf("Configuration OK: service %q defined in %s\n", cfg.Service, cfg.ComposeFile)
	return nil
}
