package shared

import "testing"

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"Lowercases", "DJShadow", "djshadow"},
		{"Trims Whitespace", "  phoebe  ", "phoebe"},
		{"Already Normalized", "girl-in-red", "girl-in-red"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeUsername(tc.input); got != tc.want {
				t.Errorf("NormalizeUsername(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidUsername(t *testing.T) {
	valid := []string{"abc", "girl-in-red", "dj_shadow", "a1b2c3"}
	invalid := []string{"", "ab", "-leading", "trailing-", "Has Space", "UPPER", "way@off"}

	for _, name := range valid {
		if !ValidUsername(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	for _, name := range invalid {
		if ValidUsername(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestValidateJSON(t *testing.T) {
	if err := ValidateJSON([]byte(`{"ok": true}`)); err != nil {
		t.Errorf("expected valid JSON, got %v", err)
	}
	if err := ValidateJSON([]byte(`{nope`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(a))
	}
}
