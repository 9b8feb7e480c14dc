package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command. Commands run in one
// process, so the store, sinks and OAuth token are set up once.
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one connection.
With storage: memory this is the only way to keep data between commands.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(app, cmd.Parent(), os.Stdin)
		},
	}
}

func runInteractive(app *AppContext, root *cobra.Command, in io.Reader) error {
	app.printf("\n🚀 Starting interactive session...\n")
	app.printf("Type 'help' for available commands, 'exit' or 'quit' to leave\n")

	commands := make(map[string]*cobra.Command)
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help", "serve":
			continue
		}
		commands[sub.Name()] = sub
	}

	scanner := bufio.NewScanner(in)
	for {
		app.printf("> ")
		if !scanner.Scan() {
			break
		}

		parts, err := splitArgs(scanner.Text())
		if err != nil {
			app.printf("❌ %v\n\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}

		name, cmdArgs := parts[0], parts[1:]
		switch name {
		case "exit", "quit":
			app.printf("👋 Goodbye!\n")
			return nil
		case "help":
			printInteractiveHelp(app, commands)
			continue
		}

		target, ok := commands[name]
		if !ok {
			app.printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
			continue
		}

		// Flags keep their values between runs unless reset
		target.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
			if sv, ok := flag.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
				return
			}
			_ = flag.Value.Set(flag.DefValue)
		})

		// Calling RunE directly skips PersistentPreRunE, which would set the app up again
		if err := target.ParseFlags(cmdArgs); err != nil {
			app.printf("❌ Error parsing flags: %v\n\n", err)
			continue
		}
		cmdArgs = target.Flags().Args()

		if target.Args != nil {
			if err := target.Args(target, cmdArgs); err != nil {
				app.printf("❌ Error: %v\n\n", err)
				continue
			}
		}

		if target.RunE != nil {
			if err := target.RunE(target, cmdArgs); err != nil {
				app.printf("❌ Error: %v\n\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// splitArgs splits a line on spaces, keeping double-quoted sections together
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inArg   bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case r == ' ' && !quoted:
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

func printInteractiveHelp(app *AppContext, commands map[string]*cobra.Command) {
	app.printf("\nAvailable commands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		app.printf("  %-45s %s\n", cmd.Use, cmd.Short)
	}

	app.printf("\n  %-45s %s\n", "help", "Show this help message")
	app.printf("  %-45s %s\n\n", "exit, quit", "Exit the interactive session")
}
