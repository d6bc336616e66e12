package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer_SplitsLines(t *testing.T) {
	buf, err := NewBuffer([]byte("alpha\nbeta\ngamma\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, buf.LineCount())
	assert.Equal(t, "alpha", buf.Line(0))
	assert.Equal(t, "gamma", buf.Line(2))
	assert.Equal(t, "alpha\nbeta\ngamma\n", string(buf.Bytes()))
}

func TestNewBuffer_EmptyFile(t *testing.T) {
	buf, err := NewBuffer(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, buf.LineCount())
	assert.Equal(t, "", buf.Text())
	assert.Empty(t, buf.Bytes())
}

func TestNewBuffer_PreservesCRLF(t *testing.T) {
	buf, err := NewBuffer([]byte("one\r\ntwo\r\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, buf.LineCount())
	assert.Equal(t, "one\ntwo\n", buf.Text())
	assert.Equal(t, "one\r\ntwo\r\n", string(buf.Bytes()))
}

func TestNewBuffer_MixedEndingsReencodeAsCRLF(t *testing.T) {
	buf, err := NewBuffer([]byte("a\nb\r\n"))
	require.NoError(t, err)

	buf.SetLine(0, "A")
	assert.Equal(t, "A\r\nb\r\n", string(buf.Bytes()))
}

func TestNewBuffer_PreservesMissingFinalNewline(t *testing.T) {
	buf, err := NewBuffer([]byte("only line"))
	require.NoError(t, err)

	assert.Equal(t, 1, buf.LineCount())
	assert.Equal(t, "only line", string(buf.Bytes()))

	buf.SetLine(0, "changed")
	assert.Equal(t, "changed", string(buf.Bytes()))
}

func TestNewBuffer_RejectsNULBytes(t *testing.T) {
	_, err := NewBuffer([]byte("abc\x00def"))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeEncoding))
}

func TestNewBuffer_RejectsInvalidUTF8(t *testing.T) {
	_, err := NewBuffer([]byte{0xff, 0xfe, 0x01})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeEncoding))
}

func TestBuffer_ReplaceRange(t *testing.T) {
	buf, err := NewBuffer([]byte("a\nb\nc\nd\n"))
	require.NoError(t, err)

	buf.ReplaceRange(1, 2, []string{"x", "y", "z"})
	assert.Equal(t, "a\nx\ny\nz\nd\n", buf.Text())

	buf.ReplaceRange(0, 1, nil)
	assert.Equal(t, "x\ny\nz\nd\n", buf.Text())
}

func TestBuffer_SetTextRederivesFinalNewline(t *testing.T) {
	buf, err := NewBuffer([]byte("a\nb\n"))
	require.NoError(t, err)

	buf.SetText("a\nb")
	assert.Equal(t, "a\nb", string(buf.Bytes()))

	buf.SetText("a\nb\nc\n")
	assert.Equal(t, "a\nb\nc\n", string(buf.Bytes()))
}

func TestBuffer_CloneIsIndependent(t *testing.T) {
	buf, err := NewBuffer([]byte("a\nb\n"))
	require.NoError(t, err)

	clone := buf.Clone()
	buf.SetLine(0, "mutated")

	assert.Equal(t, "a", clone.Line(0))
	assert.Equal(t, "mutated", buf.Line(0))
}
