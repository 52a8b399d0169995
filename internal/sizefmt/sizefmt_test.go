package sizefmt

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1K", 1_000, false},
		{"1k", 1_000, false},
		{"10M", 10_000_000, false},
		{"2G", 2_000_000_000, false},
		{"", 0, true},
		{"10", 0, true},
		{"abcK", 0, true},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseOrDefault(t *testing.T) {
	if got := ParseOrDefault(""); got != DefaultMaxBodySize {
		t.Errorf("ParseOrDefault(\"\") = %d, want %d", got, DefaultMaxBodySize)
	}
	if got := ParseOrDefault("bogus"); got != DefaultMaxBodySize {
		t.Errorf("ParseOrDefault(bogus) = %d, want %d", got, DefaultMaxBodySize)
	}
	if got := ParseOrDefault("1K"); got != 1_000 {
		t.Errorf("ParseOrDefault(1K) = %d, want 1000", got)
	}
}
