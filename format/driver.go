package format

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/teleivo/apexfmt/config"
)

// FileResult is the outcome of formatting one file.
type FileResult struct {
	Path    string
	Changed bool
}

// Options controls how Files treats files it finds changed.
type Options struct {
	// Write persists formatted output back to disk for every file that changed.
	Write bool
	// Workers bounds how many files are formatted concurrently. Zero picks runtime.NumCPU().
	Workers int
}

// sourceExtensions are the file extensions ExpandPaths recognizes when walking a directory, the
// dialect's analogue of teleivo-dot's ".dot"/".gv" filter.
var sourceExtensions = map[string]bool{
	".cls":     true,
	".trigger": true,
}

// ExpandPaths walks every directory in args collecting its .cls/.trigger files; non-directory
// arguments pass through unchanged regardless of extension, since naming a file directly is
// always intentional. Order within a directory follows filepath.WalkDir.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !sourceExtensions[filepath.Ext(d.Name())] {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Files formats every path concurrently and returns one FileResult per path, in input order.
// Each worker owns its own parser, arena and domain tree for the file it is processing; per
// the engine's single-threaded-per-file core, no part of the build+print pipeline is shared
// across workers. Failures (read, parse, write) are collected per file and returned together
// as a [*multierror.Error] so one bad file never hides the others.
func Files(paths []string, cfg config.Config, opts Options, logger hclog.Logger) ([]FileResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileResult, len(paths))
	errs := make([]error, len(paths))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx], errs[idx] = processFile(paths[idx], cfg, opts, logger)
			}
		}()
	}
	for i := range paths {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return results, result.ErrorOrNil()
}

func processFile(path string, cfg config.Config, opts Options, logger hclog.Logger) (FileResult, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("%s: %w", path, err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("%s: %w", path, err)
	}

	out, err := Source(src, cfg)
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("%s: %w", path, err)
	}

	changed := out != string(src)
	if changed && opts.Write {
		if err := writeFileAtomically(path, fi.Mode().Perm(), out); err != nil {
			return FileResult{Path: path}, fmt.Errorf("%s: %w", path, err)
		}
		logger.Info("formatted", "path", path)
	}
	return FileResult{Path: path, Changed: changed}, nil
}

// writeFileAtomically writes out to path via a sibling temp file, chmod'd to perm, then renamed
// into place, so a crash or a concurrent reader never observes a partially-written file.
func writeFileAtomically(path string, perm os.FileMode, out string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for atomic rename: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.WriteString(out); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}
