// Package workload generates and reads key/value load files: a list of
// pairs, a "---" line, then a trace of keys to read.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	c "Jackhammer/common"
)

const Delimiter = "---"

// Size breakpoints. Sizes are interpolated linearly between neighbours.
var (
	KeySizes   = []int{20, 25, 27, 30, 32, 33, 35, 40, 42, 50, 100}
	ValueSizes = []int{1, 5, 10, 100, 500, 2000}
)

const (
	DefaultNumKeys  = 100
	DefaultNumReads = 1000
)

const alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type Workload struct {
	Pairs []c.Pair[string, string]
	Reads []string
}

// Generator draws workloads from a seeded source, so equal seeds give
// equal workloads.
type Generator struct {
	NumKeys  int
	NumReads int
	rng      *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		NumKeys:  DefaultNumKeys,
		NumReads: DefaultNumReads,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// pick interpolates a size from table at a uniformly random point.
func (g *Generator) pick(table []int) int {
	divs := len(table) - 1
	x := g.rng.Float64()*float64(divs) + 1.0
	i := int(x)
	if i > divs {
		i = divs
	}
	start, end := table[i-1], table[i]
	return start + int(float64(end-start)*(x-float64(i)))
}

func (g *Generator) randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(b)
}

func (g *Generator) Generate() *Workload {
	w := &Workload{
		Pairs: make([]c.Pair[string, string], 0, g.NumKeys),
		Reads: make([]string, 0, g.NumReads),
	}
	for i := 0; i < g.NumKeys; i++ {
		keyLen, valLen := g.pick(KeySizes), g.pick(ValueSizes)
		w.Pairs = append(w.Pairs, c.Pair[string, string]{
			First:  g.randomString(keyLen),
			Second: g.randomString(valLen),
		})
	}
	if len(w.Pairs) == 0 {
		return w
	}
	for i := 0; i < g.NumReads; i++ {
		w.Reads = append(w.Reads, w.Pairs[g.rng.Intn(len(w.Pairs))].First)
	}
	return w
}

// WriteTo writes w in the line format read by Parse.
func (w *Workload) WriteTo(out io.Writer) (int64, error) {
	bw := bufio.NewWriter(out)
	var n int64
	write := func(s string) error {
		m, err := bw.WriteString(s)
		n += int64(m)
		return err
	}
	for _, p := range w.Pairs {
		if err := write(p.First + " " + p.Second + "\n"); err != nil {
			return n, err
		}
	}
	if err := write(Delimiter + "\n"); err != nil {
		return n, err
	}
	for _, k := range w.Reads {
		if err := write(k + "\n"); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Parse reads a workload. Keys never contain spaces; values may.
func Parse(r io.Reader) (*Workload, error) {
	w := &Workload{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	inReads := false
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		switch {
		case text == Delimiter && !inReads:
			inReads = true
		case inReads:
			if text != "" {
				w.Reads = append(w.Reads, text)
			}
		default:
			key, val, ok := strings.Cut(text, " ")
			if !ok || key == "" {
				return nil, fmt.Errorf("workload line %d: want \"key value\", got %q", line, text)
			}
			w.Pairs = append(w.Pairs, c.Pair[string, string]{First: key, Second: val})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return w, nil
}
