package normalize_test

import (
	"testing"

	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/stretchr/testify/assert"
)

func TestScalars(t *testing.T) {
	cases := []struct {
		fn   func(string) string
		name string
		in   string
		want string
	}{
		{normalize.Email, "email mixed case", "  Ana.Lopez@Example.COM ", "ana.lopez@example.com"},
		{normalize.Email, "email empty", "   ", ""},
		{normalize.Name, "name keeps case", "  Ana Lopez\t", "Ana Lopez"},
		{normalize.Role, "role upper", " ADMIN ", "admin"},
		{normalize.QueryParam, "query keeps case", " Anxiety ", "Anxiety"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.fn(c.in))
		})
	}
}

func TestTags(t *testing.T) {
	assert.Nil(t, normalize.Tags(""))
	assert.Nil(t, normalize.Tags("  "))
	assert.Equal(t, []string{"sleep", "anxiety"}, normalize.Tags("Sleep, anxiety,,SLEEP , "))
}

func TestTagList(t *testing.T) {
	assert.Equal(t, []string{"calm", "focus"}, normalize.TagList([]string{" Calm", "", "focus", "calm "}))
	assert.Empty(t, normalize.TagList(nil))
}
