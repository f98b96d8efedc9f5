package answer

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{"grounded answer", "The meeting is on Tuesday at 3pm.", KindAnswered},
		{"not enough info", "I do not have enough information to answer that.", KindInsufficient},
		{"cannot answer", "Unfortunately I cannot answer this question.", KindInsufficient},
		{"dont have info", "I don't have information about that topic.", KindInsufficient},
		{"no info available", "There is no information available in the notes.", KindInsufficient},
		{"case insensitive", "I CANNOT ANSWER that.", KindInsufficient},
		{"fingerprint mid-sentence", "Based on the notes, the answer cannot answer... done", KindInsufficient},
		{"empty", "", KindAnswered},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.text)
			if got.Kind != tc.want {
				t.Errorf("Classify(%q).Kind = %q, want %q", tc.text, got.Kind, tc.want)
			}
			if got.Text != tc.text {
				t.Errorf("Classify must keep the text verbatim")
			}
		})
	}
}
