package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/robusta/classfile"
	"github.com/dhamidi/robusta/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .class file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".class" {
				return fmt.Errorf("unsupported file extension: %s (expected .class)", ext)
			}

			cf, err := classfile.ParseFile(filename)
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "cbor":
				encoder = format.NewCBOREncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json or cbor)", outputFormat)
			}

			if err := encoder.Encode(cf); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json or cbor)")

	return cmd
}
