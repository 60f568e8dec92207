package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCompose = `---
version: '3'
services:
  freqtrade:
    image: freqtradeorg/freqtrade:stable
    container_name: freqtrade
    ports:
      - "127.0.0.1:8080:8080"
`

func writeCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateServiceFound(t *testing.T) {
	path := writeCompose(t, sampleCompose)
	if err := ValidateService(path, "freqtrade"); err != nil {
		t.Errorf("expected service to validate: %v", err)
	}
}

func TestValidateServiceMissing(t *testing.T) {
	path := writeCompose(t, sampleCompose)
	err := ValidateService(path, "freqtrade-ui")
	if err == nil {
		t.Fatal("expected error for undeclared service")
	}
	if !strings.Contains(err.Error(), "freqtrade-ui") || !strings.Contains(err.Error(), "freqtrade") {
		t.Errorf("error should name the missing service and list available ones: %v", err)
	}
}

func TestValidateServiceMissingFile(t *testing.T) {
	if err := ValidateService(filepath.Join(t.TempDir(), "nope.yml"), "freqtrade"); err == nil {
		t.Fatal("expected error for missing compose file")
	}
}

func TestValidateServiceEmpty(t *testing.T) {
	path := writeCompose(t, "version: '3'\n")
	if err := ValidateService(path, "freqtrade"); err == nil {
		t.Fatal("expected error for compose file without services")
	}
}
