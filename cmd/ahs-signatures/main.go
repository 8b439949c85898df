// Command ahs-signatures parses placeholder tags out of PDF templates and
// stamps signer values back over them.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aaronshtein1/AHS-Signatures/internal/config"
	"github.com/aaronshtein1/AHS-Signatures/internal/engine"
	"github.com/aaronshtein1/AHS-Signatures/internal/workflow"
)

var version = "dev" // set by build flags

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ahs-signatures %s\n%v\n", version, err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	svc := engine.NewService(cfg.MaxFileSize, logger,
		engine.WithMaxStreamSize(cfg.MaxStreamSize))

	if err := run(cfg, svc, logger); err != nil {
		logger.Error("operation failed", "op", cfg.Op, "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cfg *config.Config, svc *engine.Service, logger *slog.Logger) error {
	switch cfg.Op {
	case config.OpParse:
		return runParse(cfg, svc)
	case config.OpStamp:
		return runStamp(cfg, svc, logger)
	case config.OpInspect:
		return runInspect(cfg, svc)
	}
	return fmt.Errorf("unknown operation: %s", cfg.Op)
}

// runParse prints the placeholder list and derived roles as JSON.
func runParse(cfg *config.Config, svc *engine.Service) error {
	result, err := svc.ParseFile(engine.ParseFileRequest{Path: cfg.InputPath})
	if err != nil {
		return err
	}
	return printJSON(struct {
		*engine.ParseFileResult
		Roles []string `json:"roles"`
	}{result, workflow.DeriveRoles(result.Placeholders)})
}

// runStamp loads signer submissions from the values file, builds the value
// map and writes the stamped document.
func runStamp(cfg *config.Config, svc *engine.Service, logger *slog.Logger) error {
	raw, err := os.ReadFile(cfg.ValuesPath)
	if err != nil {
		return fmt.Errorf("failed to read values file: %w", err)
	}
	var submissions []workflow.SignerSubmission
	if err := json.Unmarshal(raw, &submissions); err != nil {
		return fmt.Errorf("failed to decode values file: %w", err)
	}

	result, err := svc.StampFile(engine.StampFileRequest{
		Path:       cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Values:     workflow.BuildValueMap(submissions),
	})
	if err != nil {
		return err
	}
	if result.Remaining > 0 {
		logger.Warn("placeholders left unstamped", "remaining", result.Remaining)
	}
	return printJSON(result)
}

func runInspect(cfg *config.Config, svc *engine.Service) error {
	result, err := svc.InspectFile(engine.InspectFileRequest{Path: cfg.InputPath})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
