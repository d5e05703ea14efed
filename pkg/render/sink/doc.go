// Package sink renders a [layout.Layout] into output formats.
//
// # SVG Output
//
// [RenderSVG] produces a standalone SVG document sized to the layout canvas.
// Words are drawn inside a group translated to the canvas center, each as a
// centered <text> element carrying its transform, font attributes, fill and
// CSS transition:
//
//	svg := sink.RenderSVG(l, sink.WithBackground("#fff"))
//
// Gradients declared on the layout become <defs> entries. A word references
// one through its fill, e.g. "url(#sunset)". Linear gradient endpoints are
// derived from the gradient angle by [LinearGradientCoords].
//
// # JSON Output
//
// [RenderJSON] exports the layout document itself, suitable for re-rendering
// with the render command.
//
// [layout.Layout]: github.com/matzehuels/wordcloud/pkg/layout.Layout
package sink
