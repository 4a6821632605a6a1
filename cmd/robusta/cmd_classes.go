package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/robusta/manifest"
)

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List all classes found in the configured jar directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(".")
			if err != nil {
				return err
			}
			commonlog.Configure(m.Runtime.Verbosity, nil)

			registry, err := loadClasses(m)
			if err != nil {
				return err
			}

			for _, name := range registry.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	return cmd
}
