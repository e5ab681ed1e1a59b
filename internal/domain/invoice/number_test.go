package invoice

import "testing"

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name string
		last string
		year int
		want string
	}{
		{"empty restarts", "", 2025, "INV-2025-001"},
		{"increments within year", "INV-2025-007", 2025, "INV-2025-008"},
		{"year change restarts", "INV-2024-042", 2025, "INV-2025-001"},
		{"malformed restarts", "FAKTURA-17", 2025, "INV-2025-001"},
		{"wrong digit width restarts", "INV-2025-7", 2025, "INV-2025-001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextNumber(tt.last, tt.year); got != tt.want {
				t.Errorf("NextNumber(%q, %d) = %q, want %q", tt.last, tt.year, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	year, seq, err := ParseNumber("INV-2025-042")
	if err != nil {
		t.Fatalf("ParseNumber: %v", err)
	}
	if year != 2025 || seq != 42 {
		t.Errorf("got %d/%d, want 2025/42", year, seq)
	}

	if _, _, err := ParseNumber("INV-25-042"); err == nil {
		t.Error("short year must not parse")
	}
}

func TestNumberSequenceIsMonotonic(t *testing.T) {
	last := ""
	prevSeq := 0
	for i := 0; i < 150; i++ {
		last = NextNumber(last, 2025)
		_, seq, err := ParseNumber(last)
		if err != nil {
			t.Fatalf("step %d produced unparsable number %q", i, last)
		}
		if seq != prevSeq+1 {
			t.Fatalf("step %d: seq %d after %d", i, seq, prevSeq)
		}
		prevSeq = seq
	}
}
