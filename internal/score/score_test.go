package score

import "testing"

func TestBase_OrderTiers(t *testing.T) {
	cases := []struct {
		order int
		want  int
	}{
		{1, 150},
		{2, 125},
		{3, 100},
		{4, 75},
		{5, 50},
		{6, 50},
		{20, 50},
	}
	for _, tc := range cases {
		if got := Base(tc.order); got != tc.want {
			t.Fatalf("Base(%d) = %d, want %d", tc.order, got, tc.want)
		}
	}
}

func TestTimeBonus(t *testing.T) {
	cases := []struct {
		name         string
		timeLeft     int
		roundSeconds int
		want         int
	}{
		{"full time", 60, 60, 50},
		{"45 of 60", 45, 60, 37},
		{"zero left", 0, 60, 0},
		{"negative left", -3, 60, 0},
		{"clamped above duration", 90, 60, 50},
		{"degenerate duration", 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeBonus(tc.timeLeft, tc.roundSeconds); got != tc.want {
				t.Fatalf("TimeBonus(%d, %d) = %d, want %d", tc.timeLeft, tc.roundSeconds, got, tc.want)
			}
		})
	}
}

func TestGuess_FirstGuesserAt45Of60(t *testing.T) {
	// 150 base + floor(45/60*50) = 187
	if got := Guess(1, 45, 60); got != 187 {
		t.Fatalf("Guess(1, 45, 60) = %d, want 187", got)
	}
}

func TestGuess_UsesConfiguredRoundDuration(t *testing.T) {
	// The bonus must scale with the room's configured duration, not a
	// fixed constant: half time left is always worth 25.
	if got := Guess(1, 45, 90); got != 175 {
		t.Fatalf("Guess(1, 45, 90) = %d, want 175", got)
	}
	if got := Guess(1, 15, 30); got != 175 {
		t.Fatalf("Guess(1, 15, 30) = %d, want 175", got)
	}
}
