package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RenderLineBasic(t *testing.T) {
	l := Line{
		Kind: "mk-term",
		Args: []Arg{StringArg("OP_BV_ADD"), SortArg(1), VectorArg(TermArg(1), TermArg(2))},
		Returns: []Arg{TermArg(3)},
	}
	s := RenderLine(l)
	assert.Equal(t, `mk-term "OP_BV_ADD" s1 [t1 t2] return t3`, s)
}

func Test_QuoteEscaping(t *testing.T) {
	a := StringArg("has \"quotes\"\nand a newline")
	rendered := Render(a)
	assert.Equal(t, `"has ""quotes""\nand a newline"`, rendered)
}

func Test_RecorderPreludeAndLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, true)
	require.NoError(t, r.WritePrelude([]string{"--bv", "--bool", "-s", "deadbeef"}))
	require.NoError(t, r.WriteLine(Line{Kind: "new-solver"}, "1:2"))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "set-murxla-options --bv --bool -s deadbeef", lines[0])
	assert.Equal(t, "set-seed 1:2", lines[1])
	assert.Equal(t, "new-solver", lines[2])
}

func Test_ParseRoundTrip(t *testing.T) {
	input := `set-murxla-options --bv --bool -s deadbeef
set-seed 1:2
mk-sort "BV" 8 return s1
mk-const s1 "x" return t1
mk-term "OP_BV_ADD" [t1 t1] return t2
`
	parsed, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed, 5)

	assert.True(t, parsed[0].IsOptions)
	assert.Equal(t, []string{"--bv", "--bool", "-s", "deadbeef"}, parsed[0].Options)

	assert.True(t, parsed[1].IsSeed)
	assert.Equal(t, "1:2", parsed[1].SeedState)

	assert.Equal(t, "mk-sort", parsed[2].Action.Kind)
	require.Len(t, parsed[2].Action.Returns, 1)
	assert.Equal(t, uint64(1), parsed[2].Action.Returns[0].Sort)

	assert.Equal(t, "mk-term", parsed[4].Action.Kind)
	require.Len(t, parsed[4].Action.Args, 2)
	assert.Equal(t, "OP_BV_ADD", parsed[4].Action.Args[0].Str)
	assert.Equal(t, ArgVector, parsed[4].Action.Args[1].Kind)
	assert.Len(t, parsed[4].Action.Args[1].Vector, 2)
}

func Test_ParseRejectsMalformedSetSeed(t *testing.T) {
	_, err := Parse(strings.NewReader("set-seed\n"))
	assert.Error(t, err)
}
