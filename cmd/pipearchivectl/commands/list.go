package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/pipearchive/internal/cli/output"
	"github.com/marmos91/pipearchive/pkg/archive"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List the entry table of an archive",
	Long: `List prints every entry header currently recorded for the
archive at path: ordinal, data position, size, and CRC.

Examples:
  pipearchivectl list /tmp/shaders.pak
  pipearchivectl list /tmp/shaders.pak -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// entryList adapts a slice of entry headers to output.TableRenderer.
type entryList []archive.EntryHeader

func (e entryList) Headers() []string {
	return []string{"ORDINAL", "POSITION", "SIZE", "CRC64", "NEXT BLOCK"}
}

func (e entryList) Rows() [][]string {
	rows := make([][]string, 0, len(e))
	for _, h := range e {
		rows = append(rows, []string{
			fmt.Sprintf("%d", h.OrdinalID),
			fmt.Sprintf("%d", h.DataPosition),
			fmt.Sprintf("%d", h.DataSize),
			fmt.Sprintf("%016x", h.DataCrc64),
			fmt.Sprintf("%d", h.NextBlock),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	path := args[0]
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

	count := a.GetEntryCount()
	entries := make([]archive.EntryHeader, count)
	if _, err := a.FillEntryHeaderTable(ctx, entries, 0, count); err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		return output.NewPrinter(os.Stdout, format, false).Print(entryList(entries))
	}

	if count == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	return output.PrintTable(os.Stdout, entryList(entries))
}
