package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	jackhammer "Jackhammer"
	c "Jackhammer/common"
	"Jackhammer/config"
	"Jackhammer/workload"

	"github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: client [-c config.yaml] [-timeout d] [-replay workload] [host] [port] key")
	flag.PrintDefaults()
}

// applyArgs reads the positional [host] [port] key form.
func applyArgs(cfg *config.Config, args []string) (string, error) {
	switch len(args) {
	case 1:
		return args[0], nil
	case 2:
		cfg.Host = args[0]
		return args[1], nil
	case 3:
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("bad port %q", args[1])
		}
		cfg.Host, cfg.Port = args[0], port
		return args[2], nil
	}
	return "", errors.New("too many arguments")
}

func fetchOnce(cl *jackhammer.Client, key string) int {
	value, ok, err := cl.Get(context.Background(), key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get %s: %v\n", key, err)
		return 2
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: not found\n", key)
		return 1
	}
	fmt.Println(string(value))
	return 0
}

// replay fetches every read of a workload and reports the outcome counts.
func replay(cl *jackhammer.Client, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer f.Close()
	w, err := workload.Parse(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	expected := make(map[string]string, len(w.Pairs))
	for _, p := range w.Pairs {
		expected[p.First] = p.Second
	}

	var hits, misses, wrong int
	errs := make(map[c.ErrorKind]int)
	start := time.Now()
	for _, key := range w.Reads {
		value, ok, err := cl.Get(context.Background(), key)
		switch {
		case err != nil:
			errs[c.KindOf(err)]++
		case !ok:
			misses++
		case string(value) != expected[key]:
			wrong++
		default:
			hits++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%d reads in %v: %d hits, %d misses, %d mismatched values\n", len(w.Reads), elapsed, hits, misses, wrong)
	for kind, n := range errs {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	if len(errs) > 0 || wrong > 0 {
		return 1
	}
	return 0
}

func repl(cl *jackhammer.Client, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Print("Jackhammer> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch strings.ToLower(parts[0]) {
		case "get":
			if len(parts) != 2 {
				fmt.Println("Usage: get <key>")
				continue
			}
			value, ok, err := cl.Get(context.Background(), parts[1])
			switch {
			case err != nil:
				fmt.Printf("error: %v\n", err)
			case !ok:
				fmt.Printf("GET %s: not found\n", parts[1])
			default:
				fmt.Printf("GET %s = %s\n", parts[1], value)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Use 'get <key>' or 'quit'.")
		}
	}
}

func main() {
	configPath := flag.String("c", "", "Path to config file")
	timeout := flag.Duration("timeout", 0, "Reply timeout (overrides config)")
	replayPath := flag.String("replay", "", "Fetch every read of a loadgen workload")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}

	var key string
	if flag.NArg() > 0 {
		var err error
		if key, err = applyArgs(cfg, flag.Args()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			usage()
			os.Exit(2)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if *verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	cl, err := jackhammer.Dial(*cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	code := 0
	switch {
	case *replayPath != "":
		code = replay(cl, *replayPath)
	case key != "":
		code = fetchOnce(cl, key)
	default:
		fmt.Printf("Connected to %s:%d.\n", cfg.Host, cfg.Port)
		repl(cl, os.Stdin)
	}
	cl.Close()
	os.Exit(code)
}
