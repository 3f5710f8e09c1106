package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(r, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(r, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("first line\nsecond line\n.\nignored\n"))

	got, err := GetMultiline(r, "Content:", &out)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", got)
}

func TestGetMultiline_EOFWithoutTerminator(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("only line\n"))

	got, err := GetMultiline(r, "Content:", &out)
	require.NoError(t, err)
	assert.Equal(t, "only line", got)
}

func TestGetPassphrase_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("sekret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassphrase("Passphrase", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("sekret"), pw)
	assert.Contains(t, out.String(), "Passphrase:")
}
