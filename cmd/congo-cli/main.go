package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/congoplay/internal/board"
	"github.com/hailam/congoplay/internal/engine"
	"github.com/hailam/congoplay/internal/protocol"
	"github.com/hailam/congoplay/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "search depth (0 = from preferences)")
	workers    = flag.Int("workers", 0, "search workers (0 = from preferences)")
	logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error")
	dbDir      = flag.String("db", "", "data directory (default: platform data dir)")
	noStore    = flag.Bool("no-store", false, "do not read preferences or record games")
)

func main() {
	flag.Parse()

	// Logs go to stderr so they never mix with protocol output.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profiling")
	}

	eng := engine.NewEngine()
	prefs := storage.DefaultPreferences()

	var store *storage.Storage
	if !*noStore {
		var err error
		store, err = openStorage(*dbDir)
		if err != nil {
			log.Warn().Err(err).Msg("storage unavailable, continuing without it")
		} else {
			defer store.Close()
			loaded, first, err := store.InitPreferences()
			switch {
			case err != nil:
				log.Warn().Err(err).Msg("could not load preferences")
			case first:
				log.Info().Msg("first launch, default preferences saved")
			}
			if loaded != nil {
				prefs = loaded
			}
		}
	}

	applyPreferences(eng, prefs)
	if *logLevel != "" {
		setLogLevel(*logLevel)
	}
	if *depth > 0 {
		eng.SetDepth(*depth)
	}
	if *workers > 0 {
		eng.SetWorkers(*workers)
	}

	log.Debug().
		Str("user", prefs.Username).
		Stringer("difficulty", eng.Difficulty()).
		Int("depth", eng.Depth()).
		Int("workers", eng.Workers()).
		Msg("engine-ready")

	p := protocol.New(eng, os.Stdin, os.Stdout)
	if store != nil {
		human := board.White
		if prefs.PlayerColor == storage.ColorBlack {
			human = board.Black
		}
		p.SetRecorder(store, human, prefs.Difficulty)
	}
	if err := p.Run(); err != nil {
		log.Error().Err(err).Msg("protocol")
	}

	if store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Warn().Err(err).Msg("could not save preferences")
		}
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	dbPath, err := storage.DatabaseDirIn(dir)
	if err != nil {
		return nil, err
	}
	return storage.OpenAt(dbPath)
}

// applyPreferences copies stored settings onto the engine. Zero values keep
// the engine defaults.
func applyPreferences(eng *engine.Engine, prefs *storage.UserPreferences) {
	eng.SetDifficulty(engine.Difficulty(prefs.Difficulty))
	if prefs.SearchDepth > 0 {
		eng.SetDepth(prefs.SearchDepth)
	}
	if prefs.Workers > 0 {
		eng.SetWorkers(prefs.Workers)
	}
	if prefs.LogLevel != "" {
		setLogLevel(prefs.LogLevel)
	}
}

func setLogLevel(s string) {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Warn().Str("level", s).Msg("unknown log level")
		return
	}
	zerolog.SetGlobalLevel(level)
}
