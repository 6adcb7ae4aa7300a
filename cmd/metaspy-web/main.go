package main

import (
	"flag"
	stdlog "log"

	"github.com/On-Jun9/MetaSpy/internal/config"
	"github.com/On-Jun9/MetaSpy/internal/log"
	"github.com/On-Jun9/MetaSpy/internal/web"
)

var (
	version = "dev" // set by ldflags during build
)

func main() {
	addr := flag.String("addr", "localhost:8080", "HTTP server address")
	cfgFile := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *cfgFile != "" {
		loaded, err := config.LoadFromFile(*cfgFile)
		if err != nil {
			stdlog.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		stdlog.Fatal(err)
	}

	logger, err := log.New(log.Options{
		FilePath:   cfg.LogFile,
		JSON:       cfg.LogJSON,
		Text:       !cfg.LogJSON,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		stdlog.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Close()

	server := web.NewServer(cfg)
	server.SetVersion(version)
	server.SetLogger(logger)

	if err := server.Start(*addr); err != nil {
		stdlog.Fatal(err)
	}
}
