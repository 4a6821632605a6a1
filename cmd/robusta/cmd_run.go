package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/robusta/jar"
	"github.com/dhamidi/robusta/jvm"
	"github.com/dhamidi/robusta/manifest"
)

func newRunCmd() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "run [main class]",
		Short: "Run a class's main method",
		Long: `Run the main method of a class loaded from the configured jar
directories (robusta.toml, defaulting to ./data).

The main class is named in dot-separated form, e.g. com.example.Main. If no
argument is given, the main class from robusta.toml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(".")
			if err != nil {
				return err
			}
			if verbosity == 0 {
				verbosity = m.Runtime.Verbosity
			}
			commonlog.Configure(verbosity, nil)

			mainClass := m.Runtime.Main
			if len(args) > 0 {
				mainClass = args[0]
			}
			if mainClass == "" {
				return fmt.Errorf("required main class")
			}

			registry, err := loadClasses(m)
			if err != nil {
				return err
			}

			method, err := registry.FindMainMethod(mainClass)
			if err != nil {
				return err
			}

			return jvm.NewThread(method).Run()
		},
	}

	cmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")

	return cmd
}

func loadClasses(m *manifest.Manifest) (*jvm.Registry, error) {
	registry := jvm.NewRegistry()
	loader := jar.NewLoader(registry)
	for _, dir := range m.JarDirs() {
		if err := loader.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
