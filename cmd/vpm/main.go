package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vpm-dev/vpm/internal/depgraph"
	"github.com/vpm-dev/vpm/internal/manifest"
	"github.com/vpm-dev/vpm/internal/snapshot"
)

var (
	packagesPath string
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vpm",
		Short: "Checks package install and remove operations for consistency",
		Long:  "VPM verifies that a set of packages can be installed or removed without breaking dependency, conflict or virtual-provision constraints.",
	}

	rootCmd.PersistentFlags().StringVarP(&packagesPath, "packages", "p", "./packages.yaml", "Installed package list path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	checkInstallCmd := &cobra.Command{
		Use:   "check-install <package.yaml>...",
		Short: "Check whether candidate packages can be installed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheckInstall,
	}

	checkRemoveCmd := &cobra.Command{
		Use:   "check-remove <name>...",
		Short: "Check whether installed packages can be removed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheckRemove,
	}

	rootCmd.AddCommand(checkInstallCmd)
	rootCmd.AddCommand(checkRemoveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCheckInstall(cmd *cobra.Command, args []string) error {
	log := func(format string, args ...interface{}) {
		if verbose {
			fmt.Printf(format+"\n", args...)
		}
	}

	graph, err := loadGraph()
	if err != nil {
		return err
	}

	var candidates []manifest.Package
	for _, path := range args {
		log("Loading candidate: %s", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading candidate: %w", err)
		}
		var pkg manifest.Package
		if err := yaml.Unmarshal(data, &pkg); err != nil {
			return fmt.Errorf("parsing candidate %s: %w", path, err)
		}
		candidates = append(candidates, pkg)
	}

	log("Checking %d candidates", len(candidates))
	if err := graph.IsInstallable(candidates); err != nil {
		return err
	}

	fmt.Printf("%d packages can be installed\n", len(candidates))
	return nil
}

func runCheckRemove(cmd *cobra.Command, args []string) error {
	graph, err := loadGraph()
	if err != nil {
		return err
	}

	if err := graph.IsRemovable(args); err != nil {
		return err
	}

	fmt.Printf("%d packages can be removed\n", len(args))
	return nil
}

func loadGraph() (*depgraph.Graph, error) {
	file, err := os.Open(packagesPath)
	if err != nil {
		return nil, fmt.Errorf("opening package list: %w", err)
	}
	defer file.Close()

	installed, err := snapshot.NewParser(file).Parse()
	if err != nil {
		return nil, fmt.Errorf("loading package list: %w", err)
	}

	return depgraph.New(installed, commandAvailable), nil
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
