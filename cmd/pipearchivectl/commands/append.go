package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/marmos91/pipearchive/pkg/archive"
	"github.com/spf13/cobra"
)

var appendMetadataHex string

var appendCmd = &cobra.Command{
	Use:   "append <path> <payload-file>",
	Short: "Append a new entry to an existing archive",
	Long: `Append reads payload-file and writes it as a new entry to the
archive at path, returning the assigned ordinal.

Examples:
  # Append a compiled shader blob
  pipearchivectl append /tmp/shaders.pak vertex.spv

  # Append with caller-defined metadata (hex-encoded, truncated/padded to
  # the archive's fixed metadata width)
  pipearchivectl append /tmp/shaders.pak vertex.spv --metadata 0102030405060708`,
	Args: cobra.ExactArgs(2),
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVar(&appendMetadataHex, "metadata", "", "hex-encoded entry metadata")
}

func runAppend(cmd *cobra.Command, args []string) error {
	path, payloadPath := args[0], args[1]
	ctx := context.Background()

	data, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}

	var metadata [archive.MetadataSize]byte
	if appendMetadataHex != "" {
		raw, err := hex.DecodeString(appendMetadataHex)
		if err != nil {
			return fmt.Errorf("invalid --metadata hex: %w", err)
		}
		copy(metadata[:], raw)
	}

	info := &archive.OpenInfo{
		FilePath:         dirOf(path),
		FileName:         baseOf(path),
		AllowWriteAccess: true,
	}

	a, err := archive.Open(ctx, info)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer a.Destroy()

	entry, err := a.Write(ctx, metadata, data)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}

	if err := recordInRegistry(ctx, path, 0, nil, uint32(a.GetEntryCount())); err != nil {
		return err
	}

	fmt.Printf("appended entry ordinal=%d size=%d\n", entry.OrdinalID, entry.DataSize)
	return nil
}
