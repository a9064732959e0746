package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/models"
)

var errUsage = errors.New(`usage:
  todo register <name> <email> <password>
  todo login <email> <password>
  todo me
  todo add <title>
  todo list [-completed=true|false] [-page N] [-limit N]
  todo get <id>
  todo done <id>
  todo undone <id>
  todo rename <id> <title>
  todo rm <id>
  todo version`)

// run executes one command against the API and writes its result to out
// as indented JSON.
func run(ctx context.Context, api adapter.ServerAdapter, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "register":
		if len(args) != 3 {
			return errUsage
		}
		resp, err := api.Register(ctx, models.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		return printAuth(out, resp)

	case "login":
		if len(args) != 2 {
			return errUsage
		}
		resp, err := api.Login(ctx, models.LoginRequest{Email: args[0], Password: args[1]})
		if err != nil {
			return err
		}
		return printAuth(out, resp)

	case "me":
		user, err := api.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, user)

	case "add":
		if len(args) == 0 {
			return errUsage
		}
		task, err := api.CreateTask(ctx, models.CreateTaskRequest{Title: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		return printJSON(out, task)

	case "list":
		query, err := parseListFlags(args)
		if err != nil {
			return err
		}
		page, err := api.ListTasks(ctx, query)
		if err != nil {
			return err
		}
		return printJSON(out, page)

	case "get":
		if len(args) != 1 {
			return errUsage
		}
		task, err := api.GetTask(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(out, task)

	case "done", "undone":
		if len(args) != 1 {
			return errUsage
		}
		completed := cmd == "done"
		task, err := api.UpdateTask(ctx, args[0], models.TaskPatch{Completed: &completed})
		if err != nil {
			return err
		}
		return printJSON(out, task)

	case "rename":
		if len(args) < 2 {
			return errUsage
		}
		title := strings.Join(args[1:], " ")
		task, err := api.UpdateTask(ctx, args[0], models.TaskPatch{Title: &title})
		if err != nil {
			return err
		}
		return printJSON(out, task)

	case "rm":
		if len(args) != 1 {
			return errUsage
		}
		if err := api.DeleteTask(ctx, args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "deleted", args[0])
		return err

	default:
		return errUsage
	}
}

func parseListFlags(args []string) (models.TaskQuery, error) {
	var (
		query     models.TaskQuery
		completed string
		page      int
		limit     int
	)

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&completed, "completed", "", "only completed (true) or open (false) tasks")
	fs.IntVar(&page, "page", 0, "page number, starting at 1")
	fs.IntVar(&limit, "limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return models.TaskQuery{}, fmt.Errorf("list: %w", err)
	}

	if completed != "" {
		v, err := strconv.ParseBool(completed)
		if err != nil {
			return models.TaskQuery{}, fmt.Errorf("list: invalid -completed value %q", completed)
		}
		query.Completed = &v
	}
	if page != 0 {
		query.Page = &page
	}
	if limit != 0 {
		query.Limit = &limit
	}

	return query, nil
}

func printAuth(out io.Writer, resp models.AuthResponse) error {
	if err := printJSON(out, resp.User); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "export %s=%s\n", tokenEnv, resp.Token)
	return err
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
