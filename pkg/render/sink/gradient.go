package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/wordcloud/pkg/layout"
)

// LinearGradientCoords maps a gradient angle in degrees to the x1, y1, x2, y2
// percentages of an SVG linearGradient. 0 runs left to right, 90 top to bottom.
func LinearGradientCoords(angle float64) (x1, y1, x2, y2 float64) {
	rad := angle * math.Pi / 180
	pct := func(v float64) float64 { return round2((v + 1) / 2 * 100) }
	return pct(math.Cos(rad + math.Pi)), pct(math.Sin(rad + math.Pi)),
		pct(math.Cos(rad)), pct(math.Sin(rad))
}

// round2 trims floating point noise so 90 degrees yields exactly 50 and 100.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func renderGradients(buf *bytes.Buffer, gradients []layout.Gradient) {
	if len(gradients) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, g := range gradients {
		switch g.Type {
		case layout.GradientLinear:
			x1, y1, x2, y2 := LinearGradientCoords(g.Angle)
			fmt.Fprintf(buf, `    <linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s%%" y1="%s%%" x2="%s%%" y2="%s%%">`+"\n",
				escapeXML(g.ID), num(x1), num(y1), num(x2), num(y2))
			renderStops(buf, g.Stops)
			buf.WriteString("    </linearGradient>\n")
		case layout.GradientRadial:
			fmt.Fprintf(buf, `    <radialGradient id="%s">`+"\n", escapeXML(g.ID))
			renderStops(buf, g.Stops)
			buf.WriteString("    </radialGradient>\n")
		}
	}
	buf.WriteString("  </defs>\n")
}

func renderStops(buf *bytes.Buffer, stops []layout.Stop) {
	for _, s := range stops {
		fmt.Fprintf(buf, `      <stop offset="%s" stop-color="%s"/>`+"\n", escapeXML(s.Offset), escapeXML(s.Color))
	}
}
