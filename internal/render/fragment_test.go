package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanced(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     bool
	}{
		{"plain text", "just words", true},
		{"empty", "", true},
		{"nested", "<div><p>a <b>b</b></p></div>", true},
		{"void elements", "<p>line<br>next<img src=x.png></p><hr>", true},
		{"self closing", "<p>a<br/></p>", true},
		{"closed comment", "<!-- note --><p>x</p>", true},
		{"script body", "<script>if (a < b) {}</script>", true},
		{"unclosed element", "<div><p>text</p>", false},
		{"stray end tag", "text</div>", false},
		{"misnested", "<b><i>x</b></i>", false},
		{"unclosed comment", "<p>x</p><!-- trailing", false},
		{"truncated tag", `<p>x</p><a href="broken`, false},
		{"self closing div", "<div/>intro<p>text</p>", false},
		{"self closing span", "<p>a<span/>b</p>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Balanced(tt.fragment))
		})
	}
}

func TestSafeFragment(t *testing.T) {
	balanced := "<h2 id=\"x\">Title</h2>\n<p>Body &amp; more</p>\n"
	out, err := SafeFragment(balanced)
	require.NoError(t, err)
	assert.Equal(t, balanced, out, "balanced fragments pass through verbatim")

	out, err = SafeFragment("<div><b>bold")
	require.NoError(t, err)
	assert.Equal(t, "<div><b>bold</b></div>", out)

	out, err = SafeFragment("before</div></body>after")
	require.NoError(t, err)
	assert.Equal(t, "beforeafter", out)
	assert.True(t, Balanced(out))

	out, err = SafeFragment("<div/>intro<p>text</p>")
	require.NoError(t, err)
	assert.Equal(t, "<div>intro<p>text</p></div>", out)
	assert.True(t, Balanced(out))
}
