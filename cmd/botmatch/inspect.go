package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/freeeve/battleship/internal/game"
	"github.com/freeeve/battleship/internal/repository"
	"github.com/freeeve/battleship/pkg/battleship"
)

var errNoBackend = errors.New("backend not connected (drop -dry-run)")

func printHistory(ctx context.Context, matches repository.MatchRepository, limit int) error {
	if matches == nil {
		return errNoBackend
	}
	list, err := matches.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Printf("%-36s  %-8s  %-5s  %-8s  %s\n", "ID", "STATUS", "A-B", "WINNER", "SHOTS (P/V)")
	for _, m := range list {
		fmt.Printf("%-36s  %-8s  %d-%d    %-8s  %d/%d\n",
			m.ID, m.Status, m.LevelA, m.LevelB, m.Winner, m.PlayerShots, m.VillainShots)
	}
	return nil
}

func printReplay(ctx context.Context, matches repository.MatchRepository, id string) error {
	if matches == nil {
		return errNoBackend
	}
	m, err := matches.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("match %s not found", id)
	}
	shots, err := matches.ShotsByMatch(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Match %s: level %d vs level %d, seed %d, %s", m.ID, m.LevelA, m.LevelB, m.Seed, m.Status)
	if m.Winner != "" {
		fmt.Printf(", %s won", m.Winner)
	}
	fmt.Println()
	for _, s := range shots {
		c := battleship.Coord{X: s.X, Y: s.Y}
		fmt.Printf("%4d  %-8s %-4s %s\n", s.Turn, s.Side, c, battleship.ShotResult(s.Result))
	}
	return nil
}

func printLive(ctx context.Context, cache repository.MatchCache, id string) error {
	if cache == nil {
		return errNoBackend
	}
	snapshot, err := cache.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if snapshot == "" {
		return fmt.Errorf("no live snapshot for match %s", id)
	}
	m, err := game.DecodeSave(snapshot)
	if err != nil {
		return err
	}

	fmt.Printf("Match %s, %s to move\n", m.ID, m.Turn)
	for _, side := range []game.Side{game.Player, game.Villain} {
		counts, err := cache.ShotCounts(ctx, id, side.Opponent().String())
		if err != nil {
			return err
		}
		fmt.Printf("\n%s fleet (%d shots by %s: %d miss, %d hit, %d sunk)\n%s",
			side, m.Shots[side.Opponent()], side.Opponent(),
			counts["miss"], counts["hit"], counts["sunk"],
			m.Boards[side].Render(false))
	}
	return nil
}
