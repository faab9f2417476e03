package gemini

import (
	"reflect"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"comma separated",
			"eggs, milk, flour",
			[]string{"eggs", "milk", "flour"},
		},
		{
			"newline bullets",
			"- eggs\n- milk\n- flour",
			[]string{"eggs", "milk", "flour"},
		},
		{
			"fenced half-json",
			"```json\n[\"eggs\", \"milk\"\n```",
			[]string{"eggs", "milk"},
		},
		{
			"blanks dropped",
			"eggs,, ,milk",
			[]string{"eggs", "milk"},
		},
		{
			"nothing usable",
			", ,\n",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
