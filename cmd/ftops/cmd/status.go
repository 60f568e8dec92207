package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/freqtrade"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show deployment, bot and host status",
	Long: `Report container status via docker compose ps, Freqtrade API
reachability and bot configuration, and host resource usage.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	APIReachable bool                 `json:"api_reachable"`
	APIURL       string               `json:"api_url"`
	Bot          *freqtrade.BotConfig `json:"bot,omitempty"`
	CPUPercent   float64              `json:"cpu_percent"`
	MemUsedMB    uint64               `json:"mem_used_mb"`
	MemTotalMB   uint64               `json:"mem_total_mb"`
	MemPercent   float64              `json:"mem_percent"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	report := statusReport{APIURL: cfg.API.URL}

	client := freqtrade.NewClient(cfg.API.URL, cfg.API.Username, cfg.API.Password)
	if err := client.Ping(ctx); err == nil {
		report.APIReachable = true
		if err := client.Login(ctx); err == nil {
			if bot, err := client.ShowConfig(ctx); err == nil {
				report.Bot = bot
			}
		}
	}

	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		report.CPUPercent = pct[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil {
		report.MemUsedMB = vmem.Used / 1024 / 1024
		report.MemTotalMB = vmem.Total / 1024 / 1024
		report.MemPercent = vmem.UsedPercent
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Println("Containers:")
	if res := compose.PS(ctx, newRunner(cfg)); res.Code != 0 {
		fmt.Printf("  docker compose ps failed (exit code %d)\n", res.Code)
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Check", "Status")

	apiStatus := "unreachable"
	if report.APIReachable {
		apiStatus = "ok"
	}
	table.Append("Freqtrade API", fmt.Sprintf("%s (%s)", apiStatus, report.APIURL))
	if report.Bot != nil {
		table.Append("Bot", fmt.Sprintf("%s v%s, strategy %s, state %s", report.Bot.BotName, report.Bot.Version, report.Bot.Strategy, report.Bot.State))
		mode := "live"
		if report.Bot.DryRun {
			mode = "dry-run"
		}
		table.Append("Mode", mode)
	}
	table.Append("Host CPU", fmt.Sprintf("%.1f%%", report.CPUPercent))
	table.Append("Host memory", fmt.Sprintf("%d/%d MB (%.1f%%)", report.MemUsedMB, report.MemTotalMB, report.MemPercent))
	table.Render()

	return nil
}
