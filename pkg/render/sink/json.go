package sink

import "github.com/matzehuels/wordcloud/pkg/layout"

// RenderJSON exports the layout document as pretty-printed JSON. The output
// can be read back with [layout.Unmarshal].
func RenderJSON(l layout.Layout) ([]byte, error) {
	return layout.Marshal(l)
}
