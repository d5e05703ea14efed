package cloud

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResolveUnset(t *testing.T) {
	if r := Resolve(testWords, Field[float64]{}); r != nil {
		t.Errorf("Resolve(unset) = %v, want nil", r)
	}
}

func TestResolveConstantPassesThrough(t *testing.T) {
	r := Resolve(testWords, Const(2.0))
	if r.IsPerWord() {
		t.Fatal("constant should not resolve to per-word values")
	}
	if v, ok := r.Constant(); !ok || v != 2 {
		t.Errorf("Constant() = %v, %v", v, ok)
	}
}

func TestResolveEvaluatesInIndexOrder(t *testing.T) {
	var order []int
	f := Func(func(w Word, i int) string {
		order = append(order, i)
		return strings.ToUpper(w.Text)
	})

	r := Resolve(testWords, f)
	if !r.IsPerWord() {
		t.Fatal("accessor should resolve to per-word values")
	}
	want := []string{"GO", "RUST", "ZIG"}
	got := r.Values()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %q, want %q", i, got[i], want[i])
		}
		if order[i] != i {
			t.Errorf("evaluation order[%d] = %d", i, order[i])
		}
	}
}

func TestResolvePanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected accessor panic to propagate")
		}
	}()
	Resolve(testWords, Func(func(Word, int) float64 { panic("boom") }))
}

func TestResolvedJSON(t *testing.T) {
	tests := []struct {
		name string
		in   *Resolved[float64]
		want string
	}{
		{"constant", ResolvedConst(1.5), `1.5`},
		{"per word", ResolvedValues([]float64{1, 2, 3}), `[1,2,3]`},
		{"empty per word", ResolvedValues[float64](nil), `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var back Resolved[float64]
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back.IsPerWord() != tt.in.IsPerWord() {
				t.Errorf("IsPerWord = %v, want %v", back.IsPerWord(), tt.in.IsPerWord())
			}
		})
	}
}

func TestResolvedStringConstant(t *testing.T) {
	var r Resolved[string]
	if err := json.Unmarshal([]byte(` "Impact"`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := r.Constant(); !ok || v != "Impact" {
		t.Errorf("Constant() = %q, %v", v, ok)
	}
}

// A function-valued accessor resolved on one side and rebuilt on the other
// yields exactly the values of calling the accessor directly.
func TestResolvedFieldRoundTrip(t *testing.T) {
	fontSize := Func(func(w Word, i int) float64 { return w.Value*2 + float64(i) })

	data, err := json.Marshal(Resolve(testWords, fontSize))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var received Resolved[float64]
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := received.Check(len(testWords)); err != nil {
		t.Fatalf("Check: %v", err)
	}

	rebuilt := received.Field()
	for i, w := range testWords {
		if got, want := rebuilt.Eval(w, i), fontSize.Eval(w, i); got != want {
			t.Errorf("word %d: got %v, want %v", i, got, want)
		}
	}
}

func TestResolvedFieldOutOfRange(t *testing.T) {
	f := ResolvedValues([]float64{7}).Field()
	if got := f.Eval(Word{}, 5); got != 0 {
		t.Errorf("out of range Eval = %v, want 0", got)
	}
}

func TestResolvedCheck(t *testing.T) {
	if err := ResolvedValues([]float64{1, 2}).Check(3); err == nil {
		t.Error("Check should fail on misaligned values")
	}
	if err := ResolvedConst(1.0).Check(3); err != nil {
		t.Errorf("Check on constant = %v", err)
	}
	var nilResolved *Resolved[float64]
	if err := nilResolved.Check(3); err != nil {
		t.Errorf("Check on nil = %v", err)
	}
	if nilResolved.Field().IsSet() {
		t.Error("nil Resolved should rebuild an unset Field")
	}
}
