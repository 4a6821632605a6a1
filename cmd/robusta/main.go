package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "robusta",
		Short: "A small JVM that runs class files out of jars",
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newClassesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
