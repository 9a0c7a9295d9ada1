package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	c "Jackhammer/common"
	"Jackhammer/config"
	"Jackhammer/server"
	"Jackhammer/storage"
	"Jackhammer/workload"

	"github.com/sirupsen/logrus"
)

func loadWorkload(store *storage.Storage, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := workload.Parse(f)
	if err != nil {
		return err
	}
	store.Load(w.Pairs)
	logrus.Infof("%s: preloaded %d keys from %s", c.CurFuncName(), store.Len(), path)
	return nil
}

func main() {
	configPath := flag.String("c", "", "Path to config file")
	listen := flag.String("listen", "", "Address to serve on (overrides config)")
	workloadPath := flag.String("workload", "", "Loadgen output to preload (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *workloadPath != "" {
		cfg.Server.Workload = *workloadPath
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	store := storage.NewStorage()
	if cfg.Server.Workload != "" {
		if err := loadWorkload(store, cfg.Server.Workload); err != nil {
			logrus.Fatalf("%s: %v", c.CurFuncName(), err)
		}
	}

	srv, err := server.New(cfg.Server.Listen, store)
	if err != nil {
		logrus.Fatalf("%s: %v", c.CurFuncName(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx); err != nil {
		logrus.Fatalf("%s: %v", c.CurFuncName(), err)
	}
	logrus.Infof("%s: shut down", c.CurFuncName())
}
