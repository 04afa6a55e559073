package guess

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		guess string
		word  string
		want  Verdict
	}{
		{"exact", "watermelon", "watermelon", Correct},
		{"trims and folds case", "Watermelon ", "watermelon", Correct},
		{"transposition is close", "wtaermelon", "watermelon", Close},
		{"one letter off is close", "watermelons", "watermelon", Close},
		{"nonsense is wrong", "xyz", "watermelon", Wrong},
		{"short words need exactness", "cot", "cat", Wrong},
		{"ratio close on long words", "watermeleon", "watermelon", Close},
		{"empty guess is wrong", "", "watermelon", Wrong},
		{"unrelated word is wrong", "bicycle", "watermelon", Wrong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.guess, tc.word); got != tc.want {
				t.Fatalf("Classify(%q, %q) = %v, want %v", tc.guess, tc.word, got, tc.want)
			}
		})
	}
}
