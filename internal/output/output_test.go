package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_WithIconPrefixesIt(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Status("🔍", "searching")
	assert.Equal(t, "🔍 searching\n", buf.String())
}

func TestStatus_WithoutIconIndents(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Status("", "searching")
	assert.Equal(t, "   searching\n", buf.String())
}

func TestStatusf_FormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Statusf("", "found %d results", 3)
	assert.Equal(t, "   found 3 results\n", buf.String())
}

func TestSuccess_WarningError_PrefixExpectedIcons(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Success("ok")
	w.Warning("careful")
	w.Error("broken")

	assert.Equal(t, "✅ ok\n⚠️  careful\n❌ broken\n", buf.String())
}

func TestNewline_PrintsBlankLine(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Newline()
	assert.Equal(t, "\n", buf.String())
}
