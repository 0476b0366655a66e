// Package main provides the schemac CLI, the schema compiler that turns
// an authored schema.yaml into the compiled JSON artifact the server's
// provisioning pipeline consumes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "schemac",
	Short: "schemac compiles StrataCMS schema sources",
	Long: `schemac compiles an authored schema source (YAML) into the JSON
artifact the StrataCMS server reads at provisioning time. Compilation is
deterministic: the same source always produces a byte-identical artifact,
and a failed compile never overwrites an existing good artifact.`,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("schemac v0.1.0")
	},
}
