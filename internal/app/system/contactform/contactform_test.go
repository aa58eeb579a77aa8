package contactform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:        "  Jamie Cole ",
		Email:       " Jamie@Example.COM ",
		ProjectType: "Wedding",
		Budget:      "500-1000",
		Message:     "We need a highlight reel for June.",
	}
}

func TestCheck_Valid(t *testing.T) {
	clean, msg, ok := Check(validInput())
	require.True(t, ok, msg)
	assert.Equal(t, "Jamie Cole", clean.Name)
	assert.Equal(t, "jamie@example.com", clean.Email)
	assert.Equal(t, "wedding", clean.ProjectType)
	assert.Equal(t, "500-1000", clean.Budget)
}

func TestCheck_Missing(t *testing.T) {
	for _, mutate := range []func(*Input){
		func(in *Input) { in.Name = "" },
		func(in *Input) { in.Email = "   " },
		func(in *Input) { in.ProjectType = "" },
		func(in *Input) { in.Budget = "" },
		func(in *Input) { in.Message = "" },
	} {
		in := validInput()
		mutate(&in)
		_, msg, ok := Check(in)
		assert.False(t, ok)
		assert.Equal(t, MsgMissingFields, msg)
	}
}

func TestCheck_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantMsg string
	}{
		{"short name", func(in *Input) { in.Name = "J" }, "Name must be at least 2 characters."},
		{"long name", func(in *Input) { in.Name = strings.Repeat("a", 51) }, "Name must be at most 50 characters."},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }, "Please provide a valid email."},
		{"bad project type", func(in *Input) { in.ProjectType = "documentary" }, "Project type must be one of: reels, youtube, wedding, commercial, other."},
		{"bad budget", func(in *Input) { in.Budget = "5000" }, "Budget must be one of: 50-200, 200-500, 500-1000, 1000+."},
		{"short message", func(in *Input) { in.Message = "hi there" }, "Message must be at least 10 characters."},
		{"long message", func(in *Input) { in.Message = strings.Repeat("m", 2001) }, "Message must be at most 2000 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, msg, ok := Check(in)
			assert.False(t, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestCheck_StripsMarkupBeforeLength(t *testing.T) {
	in := validInput()
	in.Message = "<script>alert(1)</script><b>short</b>"
	_, _, ok := Check(in)
	assert.False(t, ok, "markup must not count towards the minimum length")

	in.Message = "<p>Please edit my <i>wedding</i> film</p>"
	clean, msg, ok := Check(in)
	require.True(t, ok, msg)
	assert.Equal(t, "Please edit my wedding film", clean.Message)
}

func TestStoreInput(t *testing.T) {
	clean, _, ok := Check(validInput())
	require.True(t, ok)
	si := clean.StoreInput("203.0.113.9", "curl/8")
	assert.Equal(t, "jamie@example.com", si.Email)
	assert.Equal(t, "203.0.113.9", si.IPAddress)
	assert.Equal(t, "curl/8", si.UserAgent)
}
