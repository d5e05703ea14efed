package cloud_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

func ExampleResolve() {
	words := []cloud.Word{{Text: "go", Value: 9}, {Text: "rust", Value: 4}}

	font := cloud.Resolve(words, cloud.Const("Impact"))
	size := cloud.Resolve(words, cloud.Func(func(w cloud.Word, _ int) float64 {
		return w.Value * 10
	}))

	f, _ := json.Marshal(font)
	s, _ := json.Marshal(size)
	fmt.Println(string(f))
	fmt.Println(string(s))
	// Output:
	// "Impact"
	// [90,40]
}

func ExamplePlacedWord_Transform() {
	w := cloud.PlacedWord{Word: cloud.Word{Text: "go"}, X: -12.5, Y: 40, Rotate: 90}
	fmt.Println(w.Transform())
	// Output:
	// translate(-12.5,40) rotate(90)
}
