package slug_test

import (
	"testing"

	"go-candidate-backend/pkg/slug"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Ruby", "ruby"},
		{"single space", "Go Lang", "go-lang"},
		{"whitespace run collapses", "go  lang", "go-lang"},
		{"tabs and newlines", "go\tlang\nnow", "go-lang-now"},
		{"already slugged", "go-lang", "go-lang"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.Make(tc.in))
		})
	}
}

func TestMakeDeterministic(t *testing.T) {
	// Same input must always produce the same output
	for i := 0; i < 10; i++ {
		assert.Equal(t, slug.Make("Machine  Learning"), slug.Make("Machine  Learning"))
	}
}
