package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	wizard "github.com/marcosfrias28/brymar-sub012"
	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/file"
	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/redis"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Multi-step form engine for property, land and blog listings",
	Long: `wizard drives step-by-step listing forms: schema-validated navigation,
two-tier draft persistence with a 24 hour TTL, and session analytics.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "wizard.yaml", "Wizard configuration file")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for the server tier (empty = in-memory)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for the local draft cache (empty = in-memory)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}

// serverStore builds the server tier from flags: redis when an address is
// given, an in-process store otherwise.
func serverStore(cmd *cobra.Command) ports.DraftStore {
	addr, _ := cmd.Flags().GetString("redis")
	if addr != "" {
		return redis.New(addr, "", 0)
	}
	return memory.NewStore()
}

// cacheStore builds the client tier from flags.
func cacheStore(cmd *cobra.Command) (ports.CacheStore, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		return memory.NewCache(), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return file.New(filepath.Clean(dir)), nil
}

// buildEngine wires the facade from the persistent flags. The same server
// store instance backs every kind; draft payloads carry their kind and
// the stores namespace indexes by it.
func buildEngine(cmd *cobra.Command) (*wizard.Engine, error) {
	cache, err := cacheStore(cmd)
	if err != nil {
		return nil, err
	}

	eng := wizard.New(
		wizard.WithCache(cache),
		wizard.WithLogger(newLogger(cmd)),
	)
	store := serverStore(cmd)
	for _, kind := range domain.Kinds() {
		if err := eng.RegisterStore(kind, store); err != nil {
			return nil, err
		}
	}
	return eng, nil
}
