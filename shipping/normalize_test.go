package shipping

import "testing"

func TestNormalizeStripsAccents(t *testing.T) {
	cases := map[string]string{
		"Córdoba":      "cordoba",
		"Río Cuarto":   "rio cuarto",
		"Ñandú":        "nandu",
		"BUENOS AIRES": "buenos aires",
		"plain":        "plain",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsLocality(t *testing.T) {
	cases := []struct {
		address, locality string
		want              bool
	}{
		{"Córdoba, Córdoba Province, Argentina", "cordoba", true},
		{"Rio Cuarto, Cordoba, Argentina", "Río Cuarto", true},
		{"Mendoza, Argentina", "San Rafael", false},
	}
	for _, c := range cases {
		if got := containsLocality(c.address, c.locality); got != c.want {
			t.Errorf("containsLocality(%q, %q) = %v, want %v", c.address, c.locality, got, c.want)
		}
	}
}
