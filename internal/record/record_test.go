package record

import "testing"

func TestYearToken(t *testing.T) {
	cases := []struct {
		year string
		want string
	}{
		{"2024", "2024"},
		{"2025///", "2025"},
		{" 2023 ", "2023"},
		{"", ""},
		{"   ", ""},
		{"99", "99"},
		{"２０２５年春", "２０２５"}, // rune slicing, never cut mid-rune
	}
	for _, c := range cases {
		r := Record{Year: c.year}
		if got := r.YearToken(); got != c.want {
			t.Errorf("YearToken(%q) = %q, want %q", c.year, got, c.want)
		}
	}
}
