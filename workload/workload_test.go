package workload

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func inRange(n int, table []int) bool {
	return n >= table[0] && n <= table[len(table)-1]
}

func TestGenerateSizes(t *testing.T) {
	g := NewGenerator(1)
	w := g.Generate()
	if len(w.Pairs) != DefaultNumKeys || len(w.Reads) != DefaultNumReads {
		t.Fatalf("got %d pairs, %d reads", len(w.Pairs), len(w.Reads))
	}
	keys := map[string]bool{}
	for _, p := range w.Pairs {
		if !inRange(len(p.First), KeySizes) {
			t.Errorf("key length %d out of range", len(p.First))
		}
		if !inRange(len(p.Second), ValueSizes) {
			t.Errorf("value length %d out of range", len(p.Second))
		}
		if strings.ContainsAny(p.First, " \n") {
			t.Errorf("key %q has a separator", p.First)
		}
		keys[p.First] = true
	}
	for _, k := range w.Reads {
		if !keys[k] {
			t.Fatalf("read %q is not a generated key", k)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, b := NewGenerator(42).Generate(), NewGenerator(42).Generate()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different workloads")
	}
}

func TestPickInterpolates(t *testing.T) {
	g := NewGenerator(7)
	table := []int{10, 20}
	for i := 0; i < 1000; i++ {
		if n := g.pick(table); n < 10 || n >= 20 {
			t.Fatalf("pick = %d", n)
		}
	}
}

func TestWriteParse(t *testing.T) {
	g := NewGenerator(3)
	g.NumKeys, g.NumReads = 10, 25
	w := g.Generate()

	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d of %d bytes", n, buf.Len())
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, w) {
		t.Fatal("Parse(WriteTo(w)) != w")
	}
}

func TestParse(t *testing.T) {
	in := "k1 v1\nk2 value with spaces\n---\nk1\n\nk2\n"
	w, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Pairs) != 2 || w.Pairs[1].Second != "value with spaces" {
		t.Fatalf("pairs = %+v", w.Pairs)
	}
	if !reflect.DeepEqual(w.Reads, []string{"k1", "k2"}) {
		t.Fatalf("reads = %v", w.Reads)
	}

	if _, err := Parse(strings.NewReader("novalue\n")); err == nil {
		t.Fatal("accepted a pair without a value")
	}
}
