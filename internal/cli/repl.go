package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	New(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Edit(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
	Marks(ctx context.Context) error
	Mark(ctx context.Context, entryArg, text string) error
	DeleteMark(ctx context.Context, arg string) error
}

const helpText = `Commands:
  list            show all entries, newest first
  new             create an entry and type its content
  show <n>        display entry n from the last listing
  edit <n>        replace the content of entry n
  del <n>         delete entry n (with its bookmarks)
  marks           show all bookmarks
  mark <n> <text> bookmark entry n with the given text
  delmark <n>     delete bookmark n from the last marks listing
  help            this text
  exit | quit     leave the program`

// runREPL reads commands line by line and dispatches them on a. Errors
// from the backend are printed and the loop keeps going; recovery is
// always "fix the input and retry".
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprint(out, "captlog> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(out)
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		var cmdErr error
		switch cmd {
		case "exit", "quit":
			return
		case "help":
			fmt.Fprintln(out, helpText)
		case "list":
			cmdErr = a.List(ctx)
		case "new":
			cmdErr = a.New(ctx)
		case "show":
			cmdErr = withOneArg(args, func(arg string) error { return a.Show(ctx, arg) })
		case "edit":
			cmdErr = withOneArg(args, func(arg string) error { return a.Edit(ctx, arg) })
		case "del":
			cmdErr = withOneArg(args, func(arg string) error { return a.Delete(ctx, arg) })
		case "marks":
			cmdErr = a.Marks(ctx)
		case "mark":
			if len(args) < 2 {
				cmdErr = fmt.Errorf("usage: mark <n> <text>")
			} else {
				cmdErr = a.Mark(ctx, args[0], strings.Join(args[1:], " "))
			}
		case "delmark":
			cmdErr = withOneArg(args, func(arg string) error { return a.DeleteMark(ctx, arg) })
		default:
			fmt.Fprintf(out, "unknown command %q, try 'help'\n", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintf(out, "error: %v\n", cmdErr)
		}
	}
}

func withOneArg(args []string, fn func(arg string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument")
	}
	return fn(args[0])
}
