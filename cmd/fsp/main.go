package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/ministore/fsp/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "fsp",
	Short:         "Filter, sort and page table rows, pushing cheap work down to the database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newQueryCmd())
	err := rootCmd.ExecuteContext(context.Background())
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
