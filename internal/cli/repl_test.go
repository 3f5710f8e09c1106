package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	calls []string
}

func (s *stubExec) List(ctx context.Context) error { s.calls = append(s.calls, "list"); return nil }
func (s *stubExec) New(ctx context.Context) error  { s.calls = append(s.calls, "new"); return nil }
func (s *stubExec) Show(ctx context.Context, arg string) error {
	s.calls = append(s.calls, "show "+arg)
	return nil
}
func (s *stubExec) Edit(ctx context.Context, arg string) error {
	s.calls = append(s.calls, "edit "+arg)
	return nil
}
func (s *stubExec) Delete(ctx context.Context, arg string) error {
	s.calls = append(s.calls, "del "+arg)
	return nil
}
func (s *stubExec) Marks(ctx context.Context) error { s.calls = append(s.calls, "marks"); return nil }
func (s *stubExec) Mark(ctx context.Context, entryArg, text string) error {
	s.calls = append(s.calls, "mark "+entryArg+" "+text)
	return nil
}
func (s *stubExec) DeleteMark(ctx context.Context, arg string) error {
	s.calls = append(s.calls, "delmark "+arg)
	return nil
}

func runScript(t *testing.T, script string) (*stubExec, string) {
	t.Helper()
	stub := &stubExec{}
	var out bytes.Buffer
	runREPL(context.Background(), stub, bufio.NewReader(strings.NewReader(script)), &out)
	return stub, out.String()
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runScript(t, "list\nnew\nshow 2\nmark 1 Ch.1 part two\nexit\n")

	assert.Equal(t, []string{"list", "new", "show 2", "mark 1 Ch.1 part two"}, stub.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	_, out := runScript(t, "frobnicate\nquit\n")
	assert.Contains(t, out, "unknown command")
}

func TestREPL_EmptyLinesIgnored(t *testing.T) {
	stub, _ := runScript(t, "\n\nlist\n\nexit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_MissingArguments(t *testing.T) {
	_, out := runScript(t, "show\nmark 1\nexit\n")
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, "usage: mark")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	stub, _ := runScript(t, "list\n") // no exit, reader hits EOF
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_HelpListsCommands(t *testing.T) {
	_, out := runScript(t, "help\nexit\n")
	for _, cmd := range []string{"list", "new", "show", "edit", "del", "marks", "mark", "delmark"} {
		assert.Contains(t, out, cmd)
	}
}
