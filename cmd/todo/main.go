package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"todo-api/internal/config"
	"todo-api/internal/db"
	"todo-api/pkg/task"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		fatal("connect: %v", err)
	}

	err = run(ctx, store, os.Args[1:], os.Stdout)
	closeStore()
	if err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(1)
		}
		fatal("%v", err)
	}
}

var errUsage = errors.New("usage")

// run executes one command against store, writing results to out.
func run(ctx context.Context, store task.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	svc := task.NewService(store)

	switch args[0] {
	case "init":
		if err := store.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure tasks table: %w", err)
		}
		fmt.Fprintln(out, "tasks table ready")
		return nil

	case "list":
		flags := parseFlags(args[1:])
		tasks, err := svc.List(ctx)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if flags["format"] == "short" {
			printShortTasks(out, tasks)
			return nil
		}
		return printJSON(out, tasks)

	case "get":
		if len(args) < 2 {
			return fmt.Errorf("Usage: todo get <id>")
		}
		t, err := svc.Get(ctx, args[1])
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		return printJSON(out, t)

	case "create":
		positional, flags := splitArgs(args[1:])
		_, completed := flags["completed"]
		t, err := svc.Create(ctx, strings.Join(positional, " "), completed)
		if err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return printJSON(out, t)

	case "update":
		if len(args) < 2 {
			return fmt.Errorf("Usage: todo update <id> [--description=...] [--completed=true|false]")
		}
		flags := parseFlags(args[2:])
		var p task.Patch
		if v, ok := flags["description"]; ok {
			p.Description = &v
		}
		if v, ok := flags["completed"]; ok {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			p.Completed = &b
		}
		t, err := svc.Update(ctx, args[1], p)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return printJSON(out, t)

	case "complete":
		if len(args) < 2 {
			return fmt.Errorf("Usage: todo complete <id> [true|false]")
		}
		completed := true
		if len(args) > 2 {
			b, err := parseBool(args[2])
			if err != nil {
				return err
			}
			completed = b
		}
		t, err := svc.Complete(ctx, args[1], &completed)
		if err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
		return printJSON(out, t)

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("Usage: todo delete <id>")
		}
		if err := svc.Delete(ctx, args[1]); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		fmt.Fprintf(out, "deleted %s\n", args[1])
		return nil

	case "status":
		stats, err := svc.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, stats)

	default:
		return errUsage
	}
}

func parseFlags(args []string) map[string]string {
	_, flags := splitArgs(args)
	return flags
}

// splitArgs separates --key[=value] flags from positional arguments.
func splitArgs(args []string) ([]string, map[string]string) {
	var positional []string
	flags := make(map[string]string)
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if idx := strings.Index(arg, "="); idx >= 0 {
			flags[arg[:idx]] = arg[idx+1:]
		} else {
			flags[arg] = ""
		}
	}
	return positional, flags
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", v)
	}
	return b, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printShortTasks(out io.Writer, tasks []task.Task) {
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %s  %s\n", mark, t.ID, t.Description)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "todo: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: todo <command>

Commands:
  init                                   Create the tasks table
  list [--format=short]                  List tasks in creation order
  get <id>                               Show one task
  create <description> [--completed]     Create a task
  update <id> [--description=...] [--completed=true|false]
  complete <id> [true|false]             Set the completion flag (default true)
  delete <id>                            Delete a task
  status                                 Show task counts`)
}
