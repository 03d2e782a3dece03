// Package cli implements the mhr-assist CLI commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/mhr-assist/internal/backend"
	"github.com/rcliao/mhr-assist/internal/router"
)

var (
	backendFlag string
	modelFlag   string
	formatFlag  string
	verbose     bool

	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mhr-assist",
	Short: "Clinical note assistant backed by a simulated My Health Record",
	Long: `Ask questions about the demo patient's My Health Record and draft notes
with an AI assistant. Record questions (medications, allergies, imaging, ...)
are answered locally; everything else goes to the configured model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Model backend: gemini or ollama (default: $MHR_ASSIST_BACKEND or gemini)")
	RootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model name (default: $MHR_ASSIST_MODEL or the backend's default)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func getBackend() string {
	if backendFlag != "" {
		return backendFlag
	}
	if env := os.Getenv("MHR_ASSIST_BACKEND"); env != "" {
		return env
	}
	return "gemini"
}

func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}
	return os.Getenv("MHR_ASSIST_MODEL")
}

func getAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func newGenerator(ctx context.Context) (backend.Generator, error) {
	switch getBackend() {
	case "gemini":
		return backend.NewGemini(ctx, backend.GeminiOptions{APIKey: getAPIKey(), Model: getModel()})
	case "ollama":
		return backend.NewOllama(os.Getenv("OLLAMA_HOST"), getModel()), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", getBackend())
	}
}

// newRouter builds the router. Without a usable backend, record questions
// still work and every other question gets the fallback reply.
func newRouter(ctx context.Context) (*router.Router, error) {
	gen, err := newGenerator(ctx)
	if errors.Is(err, backend.ErrNoAPIKey) {
		logger.Warn("GEMINI_API_KEY not set; only record questions will be answered")
		return router.New(nil, router.WithLogger(logger)), nil
	}
	if err != nil {
		return nil, err
	}
	if named, ok := gen.(interface{ Name() string }); ok {
		logger.Debug("using backend", zap.String("backend", named.Name()))
	}
	return router.New(gen, router.WithLogger(logger)), nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
