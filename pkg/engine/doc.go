// Package engine provides the placement engine: the capability that turns a
// list of words into non-overlapping positions on a canvas.
//
// The rest of the module consumes the engine only through the [Engine]
// interface. [SpiralEngine] is the implementation shipped with the module: it
// walks each word along a spiral from a jittered start point until the word's
// box fits the canvas without overlapping any word placed before it.
//
// # Placement order
//
// Accessors in a [Request] are evaluated once per word in input order. Words are
// then placed largest first, so the order of placed words generally differs
// from the input order. Words that cannot be placed are skipped silently; they
// appear in neither the streamed words nor the returned slice.
//
// # Measurement
//
// Word boxes come from a [Measurer]. [GoFontMeasurer] measures with the Go font
// family through golang.org/x/image/font/opentype regardless of the requested
// family name; [ApproxMeasurer] uses a fixed advance per rune.
package engine
