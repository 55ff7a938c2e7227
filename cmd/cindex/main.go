package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/cindex"
	"github.com/spf13/cobra"
)

var (
	flagDB         string
	flagFormat     string
	flagLib        string
	flagLibVersion string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cindex",
	Short:         "Index and inspect C/C++ sources through libclang",
	Long:          "cindex loads the installed libclang at runtime, adapts to its version, and exposes parsing, AST dumps, tokenization and a SQLite symbol index on top of it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .cindex/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLib, "lib", "", "shared-library base name (default: libclang)")
	rootCmd.PersistentFlags().StringVar(&flagLibVersion, "lib-version", "", "shared-library version suffix (e.g. 3.2)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(queryCmd)
}

// loadLibrary opens libclang per the --lib/--lib-version flags.
func loadLibrary() (*cindex.Library, error) {
	var opts []cindex.Option
	if flagLib != "" {
		opts = append(opts, cindex.WithLibraryName(flagLib))
	}
	if flagLibVersion != "" {
		opts = append(opts, cindex.WithLibraryVersion(flagLibVersion))
	}
	return cindex.Load(opts...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the detected libclang version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()
		return output(cmd.OutOrStdout(), map[string]string{"libclang": lib.Version().String()},
			func() { fmt.Fprintf(cmd.OutOrStdout(), "libclang %s\n", lib.Version()) })
	},
}

var flagClangArgs []string

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a source tree into the symbol database",
	Long:  "Parses C/C++ sources with libclang and writes declarations and diagnostics to the SQLite database.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringArrayVar(&flagClangArgs, "clang-arg", nil, "compiler argument passed to every parse (repeatable)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	ix, err := cindex.NewIndexer(lib, dbPath, cindex.WithClangArgs(flagClangArgs...))
	if err != nil {
		return fmt.Errorf("creating indexer: %w", err)
	}
	defer ix.Close()

	if err := ix.IndexDirectory(context.Background(), targetDir); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %s in %s (libclang %s)\n",
		targetDir, time.Since(start).Round(time.Millisecond), lib.Version())
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".cindex", "index.db")
}
