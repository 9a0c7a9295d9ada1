package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"Jackhammer/workload"
)

func main() {
	keys := flag.Int("keys", workload.DefaultNumKeys, "Number of key/value pairs")
	reads := flag.Int("reads", workload.DefaultNumReads, "Number of reads in the trace")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	flag.Parse()

	if *keys < 0 || *reads < 0 {
		fmt.Fprintln(os.Stderr, "Usage: loadgen [-keys n] [-reads m] [-seed s]")
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g := workload.NewGenerator(*seed)
	g.NumKeys, g.NumReads = *keys, *reads
	if _, err := g.Generate().WriteTo(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
