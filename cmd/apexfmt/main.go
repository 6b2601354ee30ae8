// Command apexfmt formats source files of the target business-logic dialect.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/teleivo/apexfmt/config"
	"github.com/teleivo/apexfmt/format"
)

func main() {
	code, err := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(code)
}

// run is the testable core of main: exit code 0 is success, 1 means -check found a file that
// would change, 2 is a parse error, 3 is everything else (I/O, bad flags, bad configuration).
func run(args []string, r io.Reader, w, wErr io.Writer) (int, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(wErr)
	indentSize := flags.Int("indent-size", 2, "number of spaces per indent level")
	maxWidth := flags.Int("max-width", 80, "maximum line width")
	check := flags.Bool("check", false, "exit with status 1 if any file would change, without writing")
	list := flags.Bool("l", false, "print the names of files that would change")
	write := flags.Bool("w", false, "write the formatted output back to each file")

	if err := flags.Parse(args[1:]); err != nil {
		return 3, err
	}

	cfg, err := config.New(*indentSize, *maxWidth)
	if err != nil {
		return 3, err
	}

	paths := flags.Args()
	if len(paths) == 0 {
		return runStdin(r, w, cfg)
	}

	paths, err = format.ExpandPaths(paths)
	if err != nil {
		return 3, err
	}

	logger := hclog.New(&hclog.LoggerOptions{Name: "apexfmt", Output: wErr, Level: hclog.Warn})
	results, err := format.Files(paths, cfg, format.Options{Write: *write}, logger)
	if err != nil {
		return exitCodeFor(err), err
	}

	anyChanged := false
	for _, res := range results {
		if !res.Changed {
			continue
		}
		anyChanged = true
		if *list || *check {
			fmt.Fprintln(w, res.Path)
		}
	}
	if *check && anyChanged {
		return 1, nil
	}
	return 0, nil
}

func runStdin(r io.Reader, w io.Writer, cfg config.Config) (int, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return 3, err
	}
	out, err := format.Source(src, cfg)
	if err != nil {
		return 2, err
	}
	fmt.Fprint(w, out)
	return 0, nil
}

// exitCodeFor inspects the aggregated per-file errors Files returns, mapping to 2 when every
// failure is a parse error and 3 when any is not (read or write failures take priority as the
// more severe class since a parse error is at least a well-understood outcome).
func exitCodeFor(err error) int {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		sawParseError := false
		for _, e := range merr.Errors {
			var pe *format.ParseError
			if errors.As(e, &pe) {
				sawParseError = true
				continue
			}
			return 3
		}
		if sawParseError {
			return 2
		}
	}
	return 3
}
