package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"first.last@sub.example.org", true},
		{"a@b.c", true},
		{"", false},
		{"ax.com", false},
		{"a@@x.com", false},
		{"a@b@x.com", false},
		{"@x.com", false},
		{"a@xcom", false},
		{"a@.com", false},
		{"a@x.", false},
		{"a b@x.com", false},
		{"a@x.com ", false},
		{"a@x\t.com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validEmail(tc.email), tc.email)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate("2024-02-29"))
	assert.False(t, validDate("2023-02-29"))
	assert.False(t, validDate("2024-2-1"))
	assert.False(t, validDate("tomorrow"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(conflict("x")))
	assert.Equal(t, Kind(""), KindOf(assert.AnError))
	assert.False(t, IsNotFound(nil))
}
