package main

import (
	"flag"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/go-logr/logr"

	"github.com/hailam/chessplay/internal/applog"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/uci"
)

// Default NNUE weight file names, checked in autoLoadNNUE's search paths.
const (
	defaultBigNet   = "nn-c288c895ea92.nnue" // ~108MB
	defaultSmallNet = "nn-37f18f62d772.nnue" // ~3.5MB
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()
	log := applog.New("chessplay-uci")

	if profilePath := resolveProfilePath(); profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Error(err, "could not create CPU profile")
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error(err, "could not start CPU profile")
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
		log.Info("CPU profiling enabled", "path", profilePath)
	}

	eng := engine.NewEngine(64)
	eng.SetLogger(log)

	if err := autoLoadNNUE(eng, log); err != nil {
		log.Info("NNUE not loaded, using classical evaluation", "reason", err.Error())
	}

	protocol := uci.New(eng)
	defer protocol.Close()
	protocol.Run()
}

// resolveProfilePath prefers the -cpuprofile flag, falling back to the
// CPUPROFILE environment variable.
func resolveProfilePath() string {
	if *cpuprofile != "" {
		return *cpuprofile
	}
	return os.Getenv("CPUPROFILE")
}

// nnueSearchPaths lists, in preference order, the directories autoLoadNNUE
// checks for the default network files.
func nnueSearchPaths() []string {
	home := getHomeDir()
	return []string{
		filepath.Join(home, "Library", "Application Support", "chessplay", "nnue"), // macOS
		filepath.Join(home, ".chessplay", "nnue"),
		"./nnue",
		".",
	}
}

// autoLoadNNUE tries each of nnueSearchPaths in turn, loading the first
// directory containing both default network files.
func autoLoadNNUE(eng *engine.Engine, log logr.Logger) error {
	for _, dir := range nnueSearchPaths() {
		bigPath := filepath.Join(dir, defaultBigNet)
		smallPath := filepath.Join(dir, defaultSmallNet)

		if !fileExists(bigPath) || !fileExists(smallPath) {
			continue
		}

		if err := eng.LoadNNUE(bigPath, smallPath); err != nil {
			log.Info("failed to load NNUE", "dir", dir, "error", err.Error())
			continue
		}
		eng.SetUseNNUE(true)
		log.Info("NNUE loaded", "dir", dir)
		return nil
	}

	return os.ErrNotExist
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
