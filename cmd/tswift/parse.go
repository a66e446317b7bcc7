package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// ErrUnsupportedParseFmt indicates an unknown --format value.
var ErrUnsupportedParseFmt = errors.New("unsupported format")

const (
	formatTree = "tree"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the Swift concrete syntax tree of a file",
		Long: `Parse a Swift file with tree-sitter and print its concrete syntax tree.

Examples:
  tswift parse Model.swift                 # indented tree
  tswift parse -f json Model.swift         # JSON
  cat Model.swift | tswift parse -f yaml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "output format (tree, json, yaml)")

	return cmd
}

func runParse(cmd *cobra.Command, path, format string) error {
	if format != formatTree && format != formatJSON && format != formatYAML {
		return fmt.Errorf("%w: %s", ErrUnsupportedParseFmt, format)
	}

	content, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	root, err := cst.NewParser().Parse(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := cmd.OutOrStdout()

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		err = enc.Encode(root)
	case formatYAML:
		err = encodeYAML(cmd, root)
	default:
		err = cst.Dump(out, root)
	}

	if err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}

// encodeYAML goes through the JSON form so the YAML mirrors its field names.
func encodeYAML(cmd *cobra.Command, root *cst.Node) error {
	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	var generic any

	err = json.Unmarshal(data, &generic)
	if err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()

	return enc.Encode(generic)
}
