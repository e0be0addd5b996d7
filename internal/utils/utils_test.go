package utils_test

import (
	"testing"

	"github.com/jrsteele09/orbithall-admin/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestUniqueTrimmed(t *testing.T) {
	got := utils.UniqueTrimmed([]string{" https://a.com ", "", "https://b.com", "https://a.com", "   "})
	require.Equal(t, []string{"https://a.com", "https://b.com"}, got)
	require.Empty(t, utils.UniqueTrimmed(nil))
}

func TestSplitLines(t *testing.T) {
	require.Equal(t, []string{"a", "b", ""}, utils.SplitLines("a\r\nb\n"))
}

func TestPtrValue(t *testing.T) {
	p := utils.Ptr("x")
	require.Equal(t, "x", *p)
	require.Equal(t, "x", utils.Value(p))

	var nilBool *bool
	require.False(t, utils.Value(nilBool))
}
