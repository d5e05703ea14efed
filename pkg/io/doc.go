// Package io loads and saves word cloud definitions.
//
// # Overview
//
// A cloud file describes one pipeline run: the words (or text to count words
// from) plus layout, presentation and render options. Three formats are
// recognized by file extension:
//
//   - .toml: options in TOML, words as an array of tables
//   - .json: options in JSON, the same shape the HTTP API accepts
//   - anything else: plain text, counted into word frequencies
//
// # TOML Format
//
//	width = 800
//	height = 600
//	spiral = "rectangular"
//	rotation = "orthogonal"
//	palette = ["#264653", "#2a9d8f", "#e9c46a"]
//
//	[[words]]
//	text = "gopher"
//	value = 12
//
//	[[words]]
//	text = "channel"
//	value = 7
//
// # Import
//
// Use [ImportOptions] to read a cloud file from a path, or [ReadTOML],
// [ReadJSON] and [ReadText] to read from any io.Reader:
//
//	opts, err := io.ImportOptions("cloud.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Imported options are not validated; the pipeline applies defaults and
// validation when it runs.
//
// # Export
//
// Use [ExportOptions] or [WriteTOML] to save options as TOML, for example to
// capture a configuration tuned interactively.
package io
