package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/marmos91/pipearchive/pkg/archive"
	"github.com/spf13/cobra"
)

var readOutPath string

var readCmd = &cobra.Command{
	Use:   "read <path> <ordinal>",
	Short: "Read one entry's payload out of an archive",
	Long: `Read fetches the payload for the entry at ordinal, verifying its
stored checksum, and writes it to stdout or to the file named by -o.

Examples:
  pipearchivectl read /tmp/shaders.pak 3 -o vertex.spv`,
	Args: cobra.ExactArgs(2),
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVarP(&readOutPath, "output", "o", "", "write payload to this file instead of stdout")
}

func runRead(cmd *cobra.Command, args []string) error {
	path := args[0]
	ordinal, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid ordinal %q: %w", args[1], err)
	}
	ctx := context.Background()

	info := &archive.OpenInfo{
		FilePath: dirOf(path),
		FileName: baseOf(path),
	}

	a, err := archive.Open(ctx, info)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer a.Destroy()

	header, err := a.GetEntryByIndex(ctx, int(ordinal))
	if err != nil {
		return fmt.Errorf("failed to locate entry %d: %w", ordinal, err)
	}

	buf := make([]byte, header.DataSize)
	if err := a.Read(ctx, header, buf); err != nil {
		return fmt.Errorf("failed to read entry %d: %w", ordinal, err)
	}

	if readOutPath == "" {
		_, err = os.Stdout.Write(buf)
		return err
	}

	if err := os.WriteFile(readOutPath, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(buf), readOutPath)
	return nil
}
