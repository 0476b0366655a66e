// Compile and check commands for the schemac CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dalemusser/stratacms/internal/schema/compiler"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile <schema.yaml>",
	Short: "Compile a schema source into the JSON artifact",
	Long: `Compile reads the authored schema source, validates that every
required section is present, and writes the compiled JSON artifact. The
artifact is written atomically: on any error the previous artifact, if
one exists, is left untouched and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compiler.Compile(args[0], compileOut); err != nil {
			fmt.Fprintln(os.Stderr, "compile:", err)
			os.Exit(1)
		}
		fmt.Println("compiled", args[0], "->", compileOut)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <schema.yaml>",
	Short: "Validate a schema source without writing the artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := compiler.LoadSource(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "check:", err)
			os.Exit(1)
		}
		fmt.Printf("ok: %d pods, %d menus, %d media assets\n",
			len(doc.Pods), len(doc.Menus), len(doc.MediaLibrary))
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "./schema/schema.json", "output path for the compiled artifact")
}
