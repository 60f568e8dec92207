package cmd

import (
	"strings"
	"testing"
)

func TestConfigFlagHelpNamesSearchedFile(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("--config flag not registered")
	}
	// initConfig searches for ftops.yaml; the help text must promise the
	// same file name
	if !strings.Contains(flag.Usage, "ftops.yaml") {
		t.Errorf("--config help text %q does not name ftops.yaml", flag.Usage)
	}
}

func TestOutputFormatDefaultsToTable(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	if flag == nil {
		t.Fatal("--output flag not registered")
	}
	if flag.DefValue != "table" {
		t.Errorf("--output default = %q, want table", flag.DefValue)
	}
}
