package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/jward/cindex"
	"github.com/spf13/cobra"
)

// dumpNode is one cursor in the AST dump.
type dumpNode struct {
	Kind      string     `json:"kind"`
	Spelling  string     `json:"spelling"`
	StartLine uint32     `json:"startLine"`
	StartCol  uint32     `json:"startCol"`
	EndLine   uint32     `json:"endLine"`
	EndCol    uint32     `json:"endCol"`
	Children  []dumpNode `json:"children,omitempty"`
}

type tokenInfo struct {
	Kind     string `json:"kind"`
	Spelling string `json:"spelling"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the AST of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file> <startLine> <endLine>",
	Short: "Print the tokens in a line range of a source file",
	Args:  cobra.ExactArgs(3),
	RunE:  runTokens,
}

// parseFile loads the library, creates an index and parses path. The
// returned cleanup disposes everything in reverse order.
func parseFile(path string) (*cindex.TranslationUnit, func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	lib, err := loadLibrary()
	if err != nil {
		return nil, nil, err
	}
	idx, err := lib.NewIndex(false, false)
	if err != nil {
		lib.Close()
		return nil, nil, err
	}
	tu, err := idx.ParseTranslationUnit(abs, flagClangArgs, nil, cindex.ParseNone)
	if err != nil {
		idx.Dispose()
		lib.Close()
		return nil, nil, err
	}
	cleanup := func() {
		tu.Dispose()
		idx.Dispose()
		lib.Close()
	}
	return tu, cleanup, nil
}

func init() {
	dumpCmd.Flags().StringArrayVar(&flagClangArgs, "clang-arg", nil, "compiler argument passed to the parse (repeatable)")
	tokensCmd.Flags().StringArrayVar(&flagClangArgs, "clang-arg", nil, "compiler argument passed to the parse (repeatable)")
}

func runDump(cmd *cobra.Command, args []string) error {
	tu, cleanup, err := parseFile(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	root, err := tu.Cursor()
	if err != nil {
		return err
	}
	nodes, err := dumpChildren(root)
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), nodes,
		func() { formatDumpText(cmd.OutOrStdout(), nodes, 0) })
}

// dumpChildren converts a cursor's subtree to dumpNodes.
func dumpChildren(c cindex.Cursor) ([]dumpNode, error) {
	children, err := c.Children()
	if err != nil {
		return nil, err
	}
	var nodes []dumpNode
	for _, child := range children {
		kind, err := child.Kind()
		if err != nil {
			return nil, err
		}
		spelling, err := child.Spelling()
		if err != nil {
			return nil, err
		}
		n := dumpNode{Kind: kind.String(), Spelling: spelling}
		extent, err := child.Extent()
		if err != nil {
			return nil, err
		}
		start, err := extent.Start()
		if err != nil {
			return nil, err
		}
		end, err := extent.End()
		if err != nil {
			return nil, err
		}
		startPos, err := start.Expand()
		if err != nil {
			return nil, err
		}
		endPos, err := end.Expand()
		if err != nil {
			return nil, err
		}
		n.StartLine, n.StartCol = startPos.Line, startPos.Column
		n.EndLine, n.EndCol = endPos.Line, endPos.Column
		n.Children, err = dumpChildren(child)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	startLine, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid start line %q: %w", args[1], err)
	}
	endLine, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid end line %q: %w", args[2], err)
	}

	tu, cleanup, err := parseFile(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	f, err := tu.File(abs)
	if err != nil {
		return err
	}
	start, err := tu.Location(f, uint32(startLine), 1)
	if err != nil {
		return err
	}
	// Column 1 of the line after endLine marks the end of the range.
	end, err := tu.Location(f, uint32(endLine)+1, 1)
	if err != nil {
		return err
	}
	extent, err := tu.Library().Range(start, end)
	if err != nil {
		return err
	}
	toks, err := tu.Tokenize(extent)
	if err != nil {
		return err
	}

	infos := make([]tokenInfo, 0, len(toks))
	for _, t := range toks {
		pos, err := t.Location.Expand()
		if err != nil {
			return err
		}
		infos = append(infos, tokenInfo{
			Kind:     t.Kind.String(),
			Spelling: t.Spelling,
			Line:     pos.Line,
			Col:      pos.Column,
		})
	}
	return output(cmd.OutOrStdout(), infos,
		func() { formatTokensText(cmd.OutOrStdout(), infos) })
}
