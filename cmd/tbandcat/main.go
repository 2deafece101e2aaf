// Command tbandcat decodes a tband wire-format trace and prints one line
// per record. It is a flat dump: no task/queue state reconstruction, no
// marker begin/end pairing, just "what did the stream say, in order".
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/schilkp/Tonbandgeraet/internal/logging"
	"github.com/schilkp/Tonbandgeraet/internal/wire"
)

func main() {
	var (
		path    = flag.String("f", "-", "trace file to decode (- for stdin)")
		verbose = flag.Bool("v", false, "verbose diagnostics on stderr")
		count   = flag.Bool("count", false, "print a per-tag record count summary instead of a line-by-line dump")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	in, err := openInput(*path)
	if err != nil {
		logger.Error("failed to open trace", "path", *path, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	if err := run(in, os.Stdout, logger, *count); err != nil {
		logger.Error("decode failed", "error", err)
		os.Exit(1)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func run(in io.Reader, out io.Writer, logger *logging.Logger, countOnly bool) error {
	dec := wire.NewDecoder(in)
	counts := make(map[string]int)
	n := 0

	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var unknown wire.ErrUnknownTag
			if errors.As(err, &unknown) {
				logger.Warn("skipping unknown tag", "tag", fmt.Sprintf("0x%02x", byte(unknown)))
				continue
			}
			return fmt.Errorf("record %d: %w", n, err)
		}
		n++
		if countOnly {
			counts[rec.Name]++
			continue
		}
		fmt.Fprintln(out, rec.String())
	}

	if countOnly {
		printCounts(out, counts)
	}
	logger.Debug("decode complete", "records", n)
	return nil
}

func printCounts(out io.Writer, counts map[string]int) {
	total := 0
	for name, c := range counts {
		fmt.Fprintf(out, "%-24s %d\n", name, c)
		total += c
	}
	fmt.Fprintf(out, "%-24s %d\n", "total", total)
}
