// Command mdstat builds a small sample module graph in-process and
// reports row/heap statistics per table, exercising the clrmeta public
// API the way a real metadata emitter would consume it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.uber.org/zap"

	"github.com/appsworld/clrmeta"
)

var rootCmd = &cobra.Command{
	Use:   "mdstat",
	Short: "Build a sample .NET metadata image and report table/heap statistics",
}

var verbose bool

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable structured build logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func maybeEnableLogging() {
	if verbose {
		l, _ := zap.NewDevelopment()
		clrmeta.SetLogger(l)
	}
}
