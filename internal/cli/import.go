package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import fixes and samples from JSON lines",
		Long: `Import raw events as newline-delimited JSON from stdin, one event per line:

  {"type":"fix","lat":52.52,"lon":13.40,"accuracy":8,"timestamp":"2024-03-05T08:00:00Z"}
  {"type":"sample","kind":"walking","start":"2024-03-05T08:00:00Z","end":"2024-03-05T08:10:00Z","value":900}

The whole batch is stored in one transaction.`,
		Run: runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	batch, err := readEvents(os.Stdin)
	if err != nil {
		exitErr("parse events", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.ImportEvents(cmd.Context(), batch.fixes, batch.samples)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}

func readEvents(r io.Reader) (eventBatch, error) {
	var batch eventBatch
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := batch.add(sc.Bytes()); err != nil {
			return batch, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return batch, sc.Err()
}
