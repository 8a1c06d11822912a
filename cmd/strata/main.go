// Command strata compiles an annotation snapshot into Go declarations.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/compiler/gen/declgen"
	"github.com/syssam/strata/compiler/load"
)

// fileConfig is the on-disk configuration, read from strata.yaml.
type fileConfig struct {
	// Snapshot is the path of the annotation snapshot (JSON).
	Snapshot string `yaml:"snapshot"`
	// Cache is an optional msgpack cache of the decoded snapshot. When the
	// cache is newer than the snapshot it is used instead.
	Cache string `yaml:"cache"`
	// Target is the output directory of the generated package.
	Target string `yaml:"target"`
	// Package is the output package import path.
	Package string `yaml:"package"`
	// Header overrides the generated-file header comment.
	Header string `yaml:"header"`
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strata",
		Short: "strata compiles annotation snapshots into typed Go declarations",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.AddCommand(generateCmd())
	return cmd
}

func generateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the declaration package from a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(configPath)
			if err != nil {
				return err
			}
			return generate(cmd, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "strata.yaml", "configuration file")
	return cmd
}

func readConfig(path string) (*fileConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &fileConfig{}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Snapshot == "" {
		return nil, fmt.Errorf("config %s: snapshot path is required", path)
	}
	if cfg.Target == "" {
		return nil, fmt.Errorf("config %s: target directory is required", path)
	}
	return cfg, nil
}

func generate(cmd *cobra.Command, cfg *fileConfig) error {
	snap, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}

	opts := []gen.Option{gen.WithTarget(cfg.Target)}
	if cfg.Package != "" {
		opts = append(opts, gen.WithPackage(cfg.Package))
	}
	if cfg.Header != "" {
		opts = append(opts, gen.WithHeader(cfg.Header))
	}
	genCfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}

	ir := gen.NewIR(snap)
	graph := gen.NewRelationGraph(ir.Entities)

	g, err := declgen.NewGenerator(ir, graph, genCfg)
	if err != nil {
		return err
	}
	if err := g.Generate(cmd.Context()); err != nil {
		return err
	}
	cmd.Printf("generated %d entities into %s\n", len(ir.Entities), cfg.Target)
	return nil
}

// loadSnapshot reads the snapshot, preferring a fresh msgpack cache and
// refreshing it after a JSON decode.
func loadSnapshot(cfg *fileConfig) (*load.Snapshot, error) {
	if snap, ok := readCache(cfg); ok {
		return snap, nil
	}
	buf, err := os.ReadFile(cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := load.UnmarshalSnapshot(buf)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", cfg.Snapshot, err)
	}
	writeCache(cfg, snap)
	return snap, nil
}

func readCache(cfg *fileConfig) (*load.Snapshot, bool) {
	if cfg.Cache == "" {
		return nil, false
	}
	ci, err := os.Stat(cfg.Cache)
	if err != nil {
		return nil, false
	}
	si, err := os.Stat(cfg.Snapshot)
	if err != nil || ci.ModTime().Before(si.ModTime()) {
		return nil, false
	}
	buf, err := os.ReadFile(cfg.Cache)
	if err != nil {
		return nil, false
	}
	snap, err := load.DecodeCache(buf)
	if err != nil {
		// A stale or corrupt cache falls back to the snapshot.
		return nil, false
	}
	return snap, true
}

func writeCache(cfg *fileConfig, snap *load.Snapshot) {
	if cfg.Cache == "" {
		return
	}
	buf, err := load.EncodeCache(snap)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Cache), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(cfg.Cache, buf, 0o644)
}
