package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"Jackhammer/scrape"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func main() {
	asJSON := flag.Bool("json", false, "Print JSON instead of YAML")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	dir := "."
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: logscrape [-json] [dir]")
		os.Exit(1)
	}
	if flag.NArg() == 1 {
		dir = flag.Arg(0)
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	reports, err := scrape.Dir(dir)
	if err != nil {
		logrus.Fatal(err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(reports)
	} else {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(reports)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		logrus.Fatal(err)
	}
}
