package wikipedia

import "testing"

func TestCleanExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Go is a language.", "Go is a language."},
		{"ref markers", "Go is fast.[1] It compiles.[12]", "Go is fast. It compiles."},
		{"whitespace", "Go  is\n\ta language.", "Go is a language."},
		{"duplicate sentences", "Go is fast. Go is fast. It compiles.", "Go is fast. It compiles."},
		{"non-adjacent duplicates kept", "Go is fast. It compiles. Go is fast.", "Go is fast. It compiles. Go is fast."},
		{"empty", "", ""},
		{"questions", "What is Go? What is Go? A language.", "What is Go? A language."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanExtract(tt.in); got != tt.want {
				t.Errorf("CleanExtract(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWorthwhile(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"who invented the telephone?", true},
		{"what is the capital of France", true},
		{"how does photosynthesis work", true},
		{"is the earth round?", true},
		{"thanks!", false},
		{"ok", false},
		{"hello there friend", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := Worthwhile(tt.question); got != tt.want {
				t.Errorf("Worthwhile(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}
