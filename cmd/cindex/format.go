package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jward/cindex"
)

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected json or text)", format)
	}
}

// output writes v as indented JSON, or calls text when --format=text.
func output(w io.Writer, v any, text func()) error {
	if flagFormat == "text" {
		text()
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSymbolsText(w io.Writer, syms []cindex.IndexedSymbol) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE\tUSR")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.Name, s.Kind, s.Location.File, s.Location.StartLine, s.USR)
	}
	tw.Flush()
}

func formatTokensText(w io.Writer, toks []tokenInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSPELLING\tLINE\tCOL")
	for _, t := range toks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", t.Kind, t.Spelling, t.Line, t.Col)
	}
	tw.Flush()
}

func formatDumpText(w io.Writer, nodes []dumpNode, depth int) {
	for _, n := range nodes {
		for i := 0; i < depth; i++ {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintf(w, "%s %s <%d:%d-%d:%d>\n",
			n.Kind, n.Spelling, n.StartLine, n.StartCol, n.EndLine, n.EndCol)
		formatDumpText(w, n.Children, depth+1)
	}
}
