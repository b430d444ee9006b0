package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != DifficultyMedium {
			t.Errorf("Expected medium difficulty")
		}
		if prefs.SearchDepth != 0 || prefs.Workers != 0 {
			t.Errorf("Expected engine defaults, got depth %d workers %d", prefs.SearchDepth, prefs.Workers)
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Abandoned:   2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Username != "Player" {
		t.Errorf("fresh database gave %+v", prefs)
	}

	prefs.Username = "river"
	prefs.Difficulty = DifficultyHard
	prefs.PlayerColor = ColorBlack
	prefs.SearchDepth = 4
	prefs.LogLevel = "debug"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Username != "river" || got.Difficulty != DifficultyHard || got.PlayerColor != ColorBlack ||
		got.SearchDepth != 4 || got.LogLevel != "debug" {
		t.Errorf("got %+v", got)
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTemp(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	first, err = s.IsFirstLaunch()
	if err != nil || first {
		t.Errorf("IsFirstLaunch after mark = %v, %v", first, err)
	}
}

func TestInitPreferences(t *testing.T) {
	s := openTemp(t)

	prefs, first, err := s.InitPreferences()
	if err != nil || !first {
		t.Fatalf("InitPreferences = %v, %v", first, err)
	}
	if prefs.Difficulty != DifficultyMedium {
		t.Errorf("first launch gave %+v", prefs)
	}
	if again, err := s.IsFirstLaunch(); err != nil || again {
		t.Errorf("IsFirstLaunch after init = %v, %v", again, err)
	}

	prefs.Username = "river"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}
	got, first, err := s.InitPreferences()
	if err != nil || first {
		t.Fatalf("second InitPreferences = %v, %v", first, err)
	}
	if got.Username != "river" {
		t.Errorf("second launch reset preferences: %+v", got)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTemp(t)

	results := []GameResult{
		{Won: true, PlayerColor: ColorWhite, Difficulty: DifficultyEasy, Plies: 40, Duration: time.Minute},
		{Won: true, PlayerColor: ColorBlack, Difficulty: DifficultyHard, Plies: 60, Duration: time.Minute},
		{Won: false, Plies: 30, Duration: time.Minute},
		{Abandoned: true, Plies: 5},
		{Won: true, PlayerColor: ColorWhite, Difficulty: DifficultyHard, Plies: 25},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 5 || stats.Wins != 3 || stats.Losses != 1 || stats.Abandoned != 1 {
		t.Errorf("counts: %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 1 {
		t.Errorf("streaks: longest %d current %d", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByColor["white"] != 2 || stats.WinsByColor["black"] != 1 {
		t.Errorf("wins by color: %v", stats.WinsByColor)
	}
	if stats.WinsByDiff["hard"] != 2 || stats.WinsByDiff["easy"] != 1 {
		t.Errorf("wins by difficulty: %v", stats.WinsByDiff)
	}
	if stats.TotalPlies != 160 || stats.TotalPlayTime != 3*time.Minute {
		t.Errorf("totals: plies %d time %s", stats.TotalPlies, stats.TotalPlayTime)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv(DataDirEnv, "")

	// Test that GetDataDir returns a valid path
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := DatabaseDirIn(dataDir)
	if err != nil {
		t.Fatalf("DatabaseDirIn failed: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir {
		t.Errorf("database dir %s not under %s", dbDir, dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestDataDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv(DataDirEnv, dir)

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("GetDataDir = %s, want %s", got, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("override directory not created: %v", err)
	}
}
