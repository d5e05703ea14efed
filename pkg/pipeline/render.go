package pipeline

import (
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// RenderFromLayout renders every requested format from a computed layout.
func RenderFromLayout(l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(l, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(l)
	case FormatSVG:
		return sink.RenderSVG(l, svgOptions(opts)...), nil
	}
	return nil, ValidateFormat(format)
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	if opts.Titles {
		out = append(out, sink.WithTitles())
	}
	return out
}
