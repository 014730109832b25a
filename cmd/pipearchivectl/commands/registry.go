package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/pipearchive/internal/cli/output"
	"github.com/marmos91/pipearchive/internal/cli/timeutil"
	"github.com/marmos91/pipearchive/pkg/archive"
	"github.com/marmos91/pipearchive/pkg/registry"
	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and manage the local archive registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all archives known to the local registry",
	RunE:  runRegistryList,
}

var registryRmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove an archive's entry from the local registry",
	Long:  "rm removes the registry record only; it does not delete the archive file itself.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryRm,
}

var (
	registryAddType uint32
)

var registryAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register an existing archive file with the local registry",
	Long:  "add inspects an existing archive's header and footer and records it in the registry, without modifying the archive.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryAdd,
}

func init() {
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryAddCmd)
	registryCmd.AddCommand(registryRmCmd)
	registryAddCmd.Flags().Uint32Var(&registryAddType, "type", 0, "archive type to require when opening for inspection")
}

type recordList []registry.Record

func (r recordList) Headers() []string {
	return []string{"PATH", "TYPE", "ENTRIES", "LAST WRITE", "REGISTERED"}
}

func (r recordList) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, rec := range r {
		rows = append(rows, []string{
			rec.Path,
			fmt.Sprintf("%d", rec.ArchiveType),
			fmt.Sprintf("%d", rec.EntryCount),
			timeutil.FormatTime(rec.LastWrite.Format(time.RFC3339)),
			timeutil.FormatTime(rec.RegisteredAt.Format(time.RFC3339)),
		})
	}
	return rows
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reg, err := openRegistry(currentConfig())
	if err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer reg.Close()

	records, err := reg.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list registry: %w", err)
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.NewPrinter(os.Stdout, format, false).Print(recordList(records))
	}
	if len(records) == 0 {
		fmt.Println("No archives registered.")
		return nil
	}
	return output.PrintTable(os.Stdout, recordList(records))
}

func runRegistryAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	info := &archive.OpenInfo{
		FilePath:    dirOf(path),
		FileName:    baseOf(path),
		ArchiveType: registryAddType,
	}

	a, err := archive.Open(ctx, info)
	if err != nil {
		return fmt.Errorf("failed to open archive for inspection: %w", err)
	}
	defer a.Destroy()

	if err := recordInRegistry(ctx, path, registryAddType, nil, uint32(a.GetEntryCount())); err != nil {
		return err
	}

	fmt.Printf("registered: %s\n", path)
	return nil
}

func runRegistryRm(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	reg, err := openRegistry(currentConfig())
	if err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer reg.Close()

	if err := reg.Remove(ctx, path); err != nil {
		return fmt.Errorf("failed to remove registry record: %w", err)
	}

	fmt.Printf("removed from registry: %s\n", path)
	return nil
}
