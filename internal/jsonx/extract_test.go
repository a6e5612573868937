package jsonx

import "testing"

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[1,2,3]`, `[1,2,3]`},
		{"leading prose", "Here is the result:\n[1, 2]", `[1, 2]`},
		{"trailing prose", `["a"] hope that helps!`, `["a"]`},
		{"markdown fence", "```json\n[{\"q\": 1}]\n```", `[{"q": 1}]`},
		{"nested arrays", `[[1],[2]]`, `[[1],[2]]`},
		{"bracket in string", `["a ] b", "c"]`, `["a ] b", "c"]`},
		{"escaped quote in string", `["she said \"]\"", 2]`, `["she said \"]\"", 2]`},
		{"no array", "just prose", ""},
		{"unterminated", `[1, 2`, ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArray(tt.in); got != tt.want {
				t.Errorf("ExtractArray(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"tool": "summarize"}`, `{"tool": "summarize"}`},
		{"prose around", `Sure! {"tool": "find"} as requested`, `{"tool": "find"}`},
		{"nested", `{"a": {"b": 1}}`, `{"a": {"b": 1}}`},
		{"brace in string", `{"a": "x } y"}`, `{"a": "x } y"}`},
		{"no object", "nothing here", ""},
		{"unterminated", `{"a": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractObject(tt.in); got != tt.want {
				t.Errorf("ExtractObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
