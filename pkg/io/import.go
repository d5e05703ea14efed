package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// maxFileSize bounds cloud files read from disk or request bodies.
const maxFileSize = 16 << 20

// ReadTOML decodes TOML cloud options from r.
func ReadTOML(r io.Reader) (pipeline.Options, error) {
	data, err := readAll(r)
	if err != nil {
		return pipeline.Options{}, err
	}
	var opts pipeline.Options
	if err := toml.Unmarshal(data, &opts); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	return opts, nil
}

// ReadJSON decodes JSON cloud options from r. Unknown fields are rejected so
// typos in option names surface instead of being ignored.
func ReadJSON(r io.Reader) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(io.LimitReader(r, maxFileSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return opts, nil
}

// ReadText reads plain text; the pipeline counts its word frequencies.
func ReadText(r io.Reader) (pipeline.Options, error) {
	data, err := readAll(r)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Text: string(data)}, nil
}

// ImportOptions reads a cloud file at path, choosing the decoder by extension.
func ImportOptions(path string) (pipeline.Options, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeNotFound, err, "cloud file %s", path)
		}
		return pipeline.Options{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ReadTOML(f)
	case ".json":
		return ReadJSON(f)
	default:
		return ReadText(f)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input exceeds %d bytes", maxFileSize)
	}
	return data, nil
}
