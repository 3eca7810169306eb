package main

import (
	"context"
	"fmt"

	"github.com/iamNilotpal/lfsgo/pkg/lfs"
	"github.com/iamNilotpal/lfsgo/pkg/options"
	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagInode   uint32
	flagOffset  uint64
	flagLength  uint64
)

func addMountFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagDataDir, "dir", "d", options.DefaultDataDir, "directory holding the disk image")
	cmd.Flags().Uint32Var(&flagInode, "inode", 17, "inode number to exercise")
}

func addExtentFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&flagOffset, "offset", 100_000_000, "byte offset within the inode's data")
	cmd.Flags().Uint64Var(&flagLength, "length", 0, "number of bytes to transfer")
}

func openMount(ctx context.Context, format bool) (*lfs.Instance, error) {
	return lfs.NewInstance(ctx, "lfsctl", format, options.WithDataDir(flagDataDir))
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format a new disk image and write a demo extent.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		instance, err := openMount(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to format disk image: %w", err)
		}
		defer instance.Close(ctx)

		payload := []byte("hello world\x00")
		if !instance.Write(ctx, flagInode, payload, 100_000_000, uint64(len(payload))) {
			return fmt.Errorf("failed to write demo extent")
		}
		if err := instance.Sync(ctx); err != nil {
			return fmt.Errorf("failed to sync after format: %w", err)
		}

		fmt.Println("formatted disk image and wrote demo extent")
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read a byte range from an inode and print it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		instance, err := openMount(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to open disk image: %w", err)
		}
		defer instance.Close(ctx)

		buf := make([]byte, flagLength)
		if !instance.Read(ctx, flagInode, buf, flagOffset, flagLength) {
			return fmt.Errorf("read failed: extent not found")
		}

		fmt.Printf("%q\n", buf)
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write DATA",
	Short: "Write DATA into an inode's byte range.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		instance, err := openMount(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to open disk image: %w", err)
		}
		defer instance.Close(ctx)

		payload := []byte(args[0])
		length := flagLength
		if length == 0 {
			length = uint64(len(payload))
		}
		if !instance.Write(ctx, flagInode, payload, flagOffset, length) {
			return fmt.Errorf("write failed")
		}
		if err := instance.Sync(ctx); err != nil {
			return fmt.Errorf("failed to sync after write: %w", err)
		}

		fmt.Println("write committed")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit the current staging segment.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		instance, err := openMount(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to open disk image: %w", err)
		}
		defer instance.Close(ctx)

		if err := instance.Sync(ctx); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		fmt.Println("synced")
		return nil
	},
}

func init() {
	addMountFlags(formatCmd)
	addMountFlags(readCmd)
	addExtentFlags(readCmd)
	addMountFlags(writeCmd)
	addExtentFlags(writeCmd)
	addMountFlags(syncCmd)
}
