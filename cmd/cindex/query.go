package main

import (
	"fmt"
	"os"

	"github.com/jward/cindex"
	"github.com/spf13/cobra"
)

var (
	flagQueryName string
	flagQueryKind string
	flagQueryUSR  string
	flagQueryFile string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the symbol database",
}

var querySymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List indexed symbols by name, kind, USR or file",
	Args:  cobra.NoArgs,
	RunE:  runQuerySymbols,
}

func init() {
	querySymbolsCmd.Flags().StringVar(&flagQueryName, "name", "", "filter by symbol name")
	querySymbolsCmd.Flags().StringVar(&flagQueryKind, "kind", "", "filter by cursor kind (e.g. EnumDecl)")
	querySymbolsCmd.Flags().StringVar(&flagQueryUSR, "usr", "", "filter by Unified Symbol Resolution string")
	querySymbolsCmd.Flags().StringVar(&flagQueryFile, "file", "", "list symbols declared in a file")
	queryCmd.AddCommand(querySymbolsCmd)
}

// openQuery opens the database named by --db (or the default under the
// current repo root) without loading the native library.
func openQuery() (*cindex.QueryBuilder, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no index database at %s (run 'cindex index' first)", dbPath)
	}
	return cindex.OpenQuery(dbPath)
}

func runQuerySymbols(cmd *cobra.Command, args []string) error {
	q, err := openQuery()
	if err != nil {
		return err
	}
	defer q.Close()

	var syms []cindex.IndexedSymbol
	switch {
	case flagQueryName != "":
		syms, err = q.SymbolsByName(flagQueryName)
	case flagQueryKind != "":
		syms, err = q.SymbolsByKind(flagQueryKind)
	case flagQueryUSR != "":
		syms, err = q.SymbolsByUSR(flagQueryUSR)
	case flagQueryFile != "":
		syms, err = q.SymbolsInFile(flagQueryFile)
	default:
		return fmt.Errorf("one of --name, --kind, --usr or --file is required")
	}
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), syms,
		func() { formatSymbolsText(cmd.OutOrStdout(), syms) })
}
