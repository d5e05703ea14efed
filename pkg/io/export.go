package io

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// WriteTOML encodes options as TOML and writes them to w. Runtime-only fields
// are omitted; the output can be re-imported with [ReadTOML].
func WriteTOML(opts pipeline.Options, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(opts); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportOptions writes options to a TOML file at path.
// This is a convenience wrapper around [WriteTOML] for file-based output.
func ExportOptions(opts pipeline.Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTOML(opts, f)
}
