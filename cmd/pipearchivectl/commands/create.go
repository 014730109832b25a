package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/pipearchive/pkg/archive"
	"github.com/marmos91/pipearchive/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	createArchiveType  uint32
	createPlatformKeyF string
)

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create a new, empty pipeline archive",
	Long: `Create a new, empty pipeline archive at the given path.

Examples:
  # Create an archive of type 7 (caller-defined classifier)
  pipearchivectl create /tmp/shaders.pak --type 7

  # Create an archive carrying a platform identity key
  pipearchivectl create /tmp/shaders.pak --type 7 --platform-key platform.key`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().Uint32Var(&createArchiveType, "type", 0, "caller-defined archive type classifier")
	createCmd.Flags().StringVar(&createPlatformKeyF, "platform-key", "", "path to a file whose contents become the archive's platform key")
}

func runCreate(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	var platformKey []byte
	if createPlatformKeyF != "" {
		data, err := os.ReadFile(createPlatformKeyF)
		if err != nil {
			return fmt.Errorf("failed to read platform key file: %w", err)
		}
		platformKey = data
	}

	info := &archive.OpenInfo{
		FilePath:    dirOf(path),
		FileName:    baseOf(path),
		ArchiveType: createArchiveType,
		PlatformKey: platformKey,
	}

	if err := archive.Create(ctx, info); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	if err := recordInRegistry(ctx, path, createArchiveType, platformKey, 0); err != nil {
		return err
	}

	fmt.Printf("archive created: %s\n", path)
	return nil
}

// recordInRegistry upserts the registry record for path. When archiveType
// and platformKey are both zero/nil (as on append, where the archive
// itself is the source of truth for those fields), the existing record's
// values are preserved rather than clobbered.
func recordInRegistry(ctx context.Context, path string, archiveType uint32, platformKey []byte, entryCount uint32) error {
	cfg := currentConfig()
	reg, err := openRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer reg.Close()

	now := time.Now()
	rec := registry.Record{
		Path:         path,
		ArchiveType:  archiveType,
		PlatformKey:  platformKey,
		EntryCount:   entryCount,
		LastWrite:    now,
		RegisteredAt: now,
	}

	if existing, err := reg.Get(ctx, path); err == nil {
		rec.RegisteredAt = existing.RegisteredAt
		if archiveType == 0 {
			rec.ArchiveType = existing.ArchiveType
		}
		if platformKey == nil {
			rec.PlatformKey = existing.PlatformKey
		}
	}

	return reg.Put(ctx, rec)
}
