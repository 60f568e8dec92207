package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/freqtrade-ops/internal/store"
)

var (
	signalsLimit int
	signalsPair  string
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Inspect persisted trading signals",
}

// signalsListCmd represents the signals list command
var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent signals, newest first",
	RunE:  runSignalsList,
}

// signalsStatsCmd represents the signals stats command
var signalsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show signal counts per type",
	RunE:  runSignalsStats,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsListCmd)
	signalsCmd.AddCommand(signalsStatsCmd)

	signalsListCmd.Flags().IntVar(&signalsLimit, "limit", 50, "maximum number of signals to show")
	signalsListCmd.Flags().StringVar(&signalsPair, "pair", "", "only show signals for this pair")
}

func openStore() (store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open signal store: %w", err)
	}
	return s, nil
}

func runSignalsList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	signals, err := s.ListSignals(signalsLimit, signalsPair)
	if err != nil {
		return fmt.Errorf("failed to list signals: %w", err)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(signals, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(signals) == 0 {
		fmt.Println("No signals recorded")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Time", "Pair", "Type", "Strength", "Message")
	for _, sig := range signals {
		table.Append(
			sig.Timestamp.Format("2006-01-02 15:04:05"),
			sig.Pair,
			string(sig.Type),
			string(sig.Strength),
			sig.Message,
		)
	}
	table.Render()
	fmt.Printf("\nTotal signals: %d\n", len(signals))
	return nil
}

func runSignalsStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.CountByType()
	if err != nil {
		return fmt.Errorf("failed to count signals: %w", err)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(counts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(counts) == 0 {
		fmt.Println("No signals recorded")
		return nil
	}

	type typeCount struct {
		name  string
		count int
	}
	rows := make([]typeCount, 0, len(counts))
	total := 0
	for typ, n := range counts {
		rows = append(rows, typeCount{string(typ), n})
		total += n
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Type", "Count")
	for _, row := range rows {
		table.Append(row.name, fmt.Sprintf("%d", row.count))
	}
	table.Render()
	fmt.Printf("\nTotal signals: %d\n", total)
	return nil
}
