package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/battleship/internal/bot"
	"github.com/freeeve/battleship/internal/config"
	"github.com/freeeve/battleship/internal/game"
	"github.com/freeeve/battleship/internal/highscore"
	"github.com/freeeve/battleship/internal/logger"
	"github.com/freeeve/battleship/internal/repository"
	"github.com/freeeve/battleship/internal/repository/postgres"
	"github.com/freeeve/battleship/internal/repository/redis"
)

func main() {
	logger.Init()
	cfg := config.Load()

	var (
		levelA   string
		levelB   string
		numGames int
		workers  int
		dbURL    string
		redisURL string
		maxTurns int
		seed     int64
		dryRun   bool
		jsonOut  bool
		heatmap  bool
		save     bool
		scores   bool
		history  int
		replayID string
		liveID   string
	)

	flag.StringVar(&levelA, "a", "hunter", "Player side level (0-4 or name)")
	flag.StringVar(&levelB, "b", cfg.BotLevel, "Villain side level (0-4 or name)")
	flag.IntVar(&numGames, "n", 1, "Number of matches to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel matches)")
	flag.StringVar(&dbURL, "db", cfg.DatabaseURL, "Database URL")
	flag.StringVar(&redisURL, "redis", cfg.RedisURL, "Redis URL (empty = no live cache)")
	flag.IntVar(&maxTurns, "max-turns", bot.DefaultMaxTurns, "Total shots before a match is abandoned")
	flag.Int64Var(&seed, "seed", cfg.Seed, "Base seed (0 = random)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database and cache writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&heatmap, "heatmap", false, "Print per-side shot heatmaps")
	flag.BoolVar(&save, "save", false, "Write the last finished match to SAVE_PATH")
	flag.BoolVar(&scores, "scores", false, "Enter winners into the SCORES_PATH top 10 and print it")
	flag.IntVar(&history, "history", 0, "List the N most recent stored matches and exit")
	flag.StringVar(&replayID, "replay", "", "Print the stored shot log of a match and exit")
	flag.StringVar(&liveID, "live", "", "Print the cached snapshot of a running match and exit")

	flag.Parse()

	a, err := bot.ParseLevel(levelA)
	if err != nil {
		log.Fatal().Err(err).Str("flag", "a").Msg("Bad level")
	}
	b, err := bot.ParseLevel(levelB)
	if err != nil {
		log.Fatal().Err(err).Str("flag", "b").Msg("Bad level")
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	// Interfaces stay nil unless a backend is connected.
	var (
		matchRepo repository.MatchRepository
		scoreRepo repository.ScoreRepository
		cache     repository.MatchCache
	)

	if !dryRun {
		db, err := postgres.Connect(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Database migration failed")
		}
		matchRepo = postgres.NewMatchRepo(db)
		scoreRepo = postgres.NewScoreRepo(db)

		if redisURL != "" {
			rc, err := redis.NewClient(redisURL)
			if err != nil {
				log.Warn().Err(err).Msg("Redis unavailable, running without live cache")
			} else {
				defer rc.Close()
				cache = rc
			}
		}
	}

	switch {
	case history > 0:
		exitOnErr(printHistory(ctx, matchRepo, history))
		return
	case replayID != "":
		exitOnErr(printReplay(ctx, matchRepo, replayID))
		return
	case liveID != "":
		exitOnErr(printLive(ctx, cache, liveID))
		return
	}

	var heatA, heatB *bot.Heatmap
	if heatmap {
		heatA, heatB = bot.NewHeatmap(), bot.NewHeatmap()
	}

	// Run matches
	results := make([]*bot.ArenaResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			matchSeed := seed
			if seed != 0 {
				matchSeed = seed + int64(idx)
			}

			arenaCfg := bot.ArenaConfig{
				LevelA:   a,
				LevelB:   b,
				Seed:     matchSeed,
				MaxTurns: maxTurns,
				DryRun:   dryRun,
				HeatmapA: heatA,
				HeatmapB: heatB,
			}

			result, err := bot.RunMatch(ctx, arenaCfg, matchRepo, scoreRepo, cache)
			if err != nil {
				log.Error().Err(err).Int("match", idx+1).Msg("Match failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("match", idx+1).Str("winner", result.Winner).Int("turns", result.Turns).Msg("Match completed")
		}(i)
	}

	wg.Wait()

	if save {
		saveLast(results, cfg.SavePath)
	}
	if scores {
		updateScores(results, cfg.ScoresPath)
	}

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, a, b, errCount, dryRun)
	}
	if heatmap {
		fmt.Printf("\nPlayer (%s) shots:\n%s", a, heatA.Render())
		fmt.Printf("\nVillain (%s) shots:\n%s", b, heatB.Render())
	}
}

func exitOnErr(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

// saveLast writes the last finished match in save-file form.
func saveLast(results []*bot.ArenaResult, path string) {
	for i := len(results) - 1; i >= 0; i-- {
		if r := results[i]; r != nil && r.Winner != "" {
			if err := game.NewFileStore(path).Save(r.Match); err != nil {
				log.Error().Err(err).Str("path", path).Msg("Failed to write save file")
				return
			}
			log.Info().Str("path", path).Str("matchId", r.MatchID).Msg("Match saved")
			return
		}
	}
	log.Warn().Msg("No finished match to save")
}

// updateScores enters every winner into the local top-10 file and prints it.
func updateScores(results []*bot.ArenaResult, path string) {
	fs := highscore.NewFileStore(path)
	list, err := fs.Load()
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read high scores")
		return
	}
	for _, r := range results {
		if r == nil || r.Winner == "" {
			continue
		}
		shots := r.PlayerShots
		if r.Winner == game.Villain.String() {
			shots = r.VillainShots
		}
		list.Add(highscore.Score{Name: "bot-" + r.WinnerLevel, Shots: shots})
	}
	if err := fs.Save(list); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write high scores")
		return
	}
	fmt.Print("\n", list.Render())
}

func printSummary(results []*bot.ArenaResult, a, b bot.Level, errCount int, dryRun bool) {
	type stats struct {
		wins       int
		totalShots int
		bestShots  int
	}
	bySide := map[string]*stats{
		game.Player.String():  {},
		game.Villain.String(): {},
	}

	completed, abandoned := 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		if r.Winner == "" {
			abandoned++
			continue
		}
		s := bySide[r.Winner]
		shots := r.PlayerShots
		if r.Winner == game.Villain.String() {
			shots = r.VillainShots
		}
		s.wins++
		s.totalShots += shots
		if s.bestShots == 0 || shots < s.bestShots {
			s.bestShots = shots
		}
	}

	fmt.Printf("\nResults (%d matches):\n", completed)
	if errCount > 0 {
		fmt.Printf("  (%d matches failed)\n", errCount)
	}
	if abandoned > 0 {
		fmt.Printf("  (%d matches hit the turn limit)\n", abandoned)
	}

	for _, side := range []struct {
		name  string
		level bot.Level
	}{{game.Player.String(), a}, {game.Villain.String(), b}} {
		s := bySide[side.name]
		avg := 0.0
		if s.wins > 0 {
			avg = float64(s.totalShots) / float64(s.wins)
		}
		fmt.Printf("  %-8s (%s):  %d wins  -- avg shots to win: %.1f, best: %d\n",
			side.name, side.level, s.wins, avg, s.bestShots)
	}

	if !dryRun && completed > 0 {
		fmt.Printf("\nMatches saved to database -- list them with -history %d\n", completed)
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
