// Command lfsctl is a small demonstration CLI for exercising an lfsgo disk
// image by hand. It mirrors the source implementation's main(): format or
// open a disk, write a fixed extent, sync, and read it back. Spec §6 calls
// this kind of entry point trivial and out of scope for the storage core
// itself.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lfsctl",
	Short: "lfsgo's command-line interface",
	Long:  "lfsctl exercises an lfsgo disk image: format it, write an extent, sync, and read it back.",
}

func init() {
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(syncCmd)
}
