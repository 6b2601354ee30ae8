// Package format is the driver: it ties configuration, parsing, enrichment, doc building and
// printing together in that order, and exposes the file-level and multi-file entry points the
// CLI is built on.
package format

import (
	"bytes"
	"fmt"

	"github.com/teleivo/apexfmt/config"
	"github.com/teleivo/apexfmt/doc"
	"github.com/teleivo/apexfmt/enrich"
	"github.com/teleivo/apexfmt/layout"
	"github.com/teleivo/apexfmt/parser"
)

// ParseError reports that a source file did not parse cleanly. No output is produced for a
// file that fails this way.
type ParseError struct {
	Errs []parser.Error
}

func (e *ParseError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more error(s))", e.Errs[0].Error(), len(e.Errs)-1)
}

// Source formats src, the UTF-8 contents of one file, per cfg. It runs the engine
// single-threaded and synchronously: parse, refuse on any parse error, enrich, build the root
// doc, then print at cfg.MaxWidth. The result always ends with exactly one trailing newline.
func Source(src []byte, cfg config.Config) (string, error) {
	p := parser.New(bytes.NewReader(src))
	tree := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return "", &ParseError{Errs: errs}
	}

	file := enrich.Enrich(tree)

	b := doc.New(cfg)
	root := layout.New(b).File(file)

	return doc.Print(root, cfg.MaxWidth) + "\n", nil
}
