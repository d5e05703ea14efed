package screen_test

import (
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/screen"
)

func ExampleMapToScreen() {
	// An 800x600 layout displayed at half size.
	w := cloud.PlacedWord{Word: cloud.Word{Text: "go"}, X: 100, Y: -50}
	p := screen.MapToScreen(&w, screen.Size{Width: 400, Height: 300}, 800, 600)
	fmt.Println(p.X, p.Y)
	// Output:
	// 250 125
}
