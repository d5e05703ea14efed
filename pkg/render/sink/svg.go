package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	titles     bool
}

// WithBackground fills the canvas with a solid color before drawing words.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitles adds a <title> to each word showing its text and value, which
// browsers display as a tooltip.
func WithTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(l.Width), num(l.Height), num(l.Width), num(l.Height))

	renderGradients(&buf, l.Gradients)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%s,%s)">`+"\n", num(l.Width/2), num(l.Height/2))
	for _, w := range l.Words {
		renderWord(&buf, w, r.titles)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWord(buf *bytes.Buffer, w cloud.FinalWord, title bool) {
	fmt.Fprintf(buf, `    <text text-anchor="middle" transform="%s" style="%s">`, w.Transform(), wordStyle(w))
	if title {
		fmt.Fprintf(buf, "<title>%s (%s)</title>", escapeXML(w.Text), num(w.Value))
	}
	buf.WriteString(escapeXML(w.Text))
	buf.WriteString("</text>\n")
}

func wordStyle(w cloud.FinalWord) string {
	s := fmt.Sprintf("font-family: %s; font-style: %s; font-weight: %s; font-size: %spx",
		w.Font, w.FontStyle, w.FontWeight, num(w.Size))
	if w.Fill != "" {
		s += "; fill: " + w.Fill
	}
	if w.Transition != "" {
		s += "; transition: " + w.Transition
	}
	return escapeXML(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
