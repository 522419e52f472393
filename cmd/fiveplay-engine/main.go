package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/protocol"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configPath = flag.String("config", "", "path to a JSON config file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	p := protocol.New(cfg.EngineOptions(), os.Stdout)
	if err := p.Run(os.Stdin); err != nil {
		log.Printf("[engine] input error: %v", err)
	}
}
