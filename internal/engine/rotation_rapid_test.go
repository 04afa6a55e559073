package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

// Property: across a whole game, within any one cycle no player draws
// twice before every other player has drawn once, and the drawer is
// always a current member of the room.
func TestRotation_RoundRobinInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numPlayers := rapid.IntRange(2, 6).Draw(rt, "players")
		totalRounds := rapid.IntRange(1, 4).Draw(rt, "rounds")

		s := NewState(rand.New(rand.NewSource(rapid.Int64().Draw(rt, "seed"))))
		for i := 0; i < numPlayers; i++ {
			id := fmt.Sprintf("p%d", i)
			if err := s.AddPlayer(Player{ID: id, Name: id}); err != nil {
				rt.Fatalf("add player: %v", err)
			}
		}

		if _, err := Apply(s, Command{
			Type:     CmdStart,
			PlayerID: "p0",
			Settings: Settings{TotalRounds: totalRounds, RoundSeconds: 60},
		}); err != nil {
			rt.Fatalf("start: %v", err)
		}

		drawnThisCycle := map[string]bool{}
		for turns := 0; s.Phase == PhaseDrawing; turns++ {
			if turns > numPlayers*totalRounds {
				rt.Fatalf("game did not terminate after %d turns", turns)
			}

			if s.FindPlayer(s.DrawerID) == nil {
				rt.Fatalf("drawer %q is not a room member", s.DrawerID)
			}
			if drawnThisCycle[s.DrawerID] {
				rt.Fatalf("player %s drew twice in one cycle", s.DrawerID)
			}
			drawnThisCycle[s.DrawerID] = true
			if len(drawnThisCycle) == numPlayers {
				drawnThisCycle = map[string]bool{}
			}

			if _, err := Apply(s, Command{Type: CmdEndTurn}); err != nil {
				rt.Fatalf("end turn: %v", err)
			}
			if _, err := Apply(s, Command{Type: CmdAdvance}); err != nil {
				rt.Fatalf("advance: %v", err)
			}
		}

		if s.Phase != PhaseOver {
			rt.Fatalf("expected game over, phase = %s", s.Phase)
		}
	})
}

// Property: at most one drawer at a time, and the guessed set never
// contains the drawer.
func TestRotation_GuessedSetExcludesDrawer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numPlayers := rapid.IntRange(3, 5).Draw(rt, "players")

		s := NewState(rand.New(rand.NewSource(1)))
		for i := 0; i < numPlayers; i++ {
			id := fmt.Sprintf("p%d", i)
			s.AddPlayer(Player{ID: id, Name: id})
		}
		s.applySettings(Settings{CustomWords: []string{"target"}})
		if _, err := Apply(s, Command{Type: CmdStart, PlayerID: "p0", Settings: Settings{TotalRounds: 1, RoundSeconds: 60}}); err != nil {
			rt.Fatalf("start: %v", err)
		}

		guessers := rapid.SliceOfN(rapid.IntRange(0, numPlayers-1), 1, 10).Draw(rt, "guessers")
		for _, g := range guessers {
			id := fmt.Sprintf("p%d", g)
			if _, err := Apply(s, Command{Type: CmdGuess, PlayerID: id, Text: "target"}); err != nil {
				rt.Fatalf("guess: %v", err)
			}
			if s.Guessed[s.DrawerID] {
				rt.Fatalf("drawer ended up in guessed set")
			}
			for id := range s.Guessed {
				if s.FindPlayer(id) == nil {
					rt.Fatalf("guessed set references non-member %q", id)
				}
			}
		}
	})
}
