package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
	"unreal-studio/internal/config"
	"unreal-studio/internal/sessionstore"
	"unreal-studio/internal/supabase"
)

// env carries what every command needs. The backend client and session store
// are opened on first use so commands like migrate work without them.
type env struct {
	out    io.Writer
	cfg    *config.Config
	logger *slog.Logger
	store  *sessionstore.SQLiteStore
	client *supabase.Client
}

func (e *env) supabase() (*supabase.Client, error) {
	if e.client != nil {
		return e.client, nil
	}
	if err := e.cfg.ValidateClient(); err != nil {
		return nil, err
	}

	store, err := sessionstore.Open(e.cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	client, err := supabase.NewClient(e.cfg.ClientConfig(),
		supabase.WithTokenStore(store),
		supabase.WithLogger(e.logger),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	e.store = store
	e.client = client
	return client, nil
}

func (e *env) close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

func (e *env) printJSON(v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(e.out, string(body))
	return err
}

func newApp(out io.Writer) *cli.App {
	e := &env{out: out}

	return &cli.App{
		Name:  "sitectl",
		Usage: "manage site content, leads and images from the terminal",
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = cfg.NewLogger()
			return nil
		},
		After: func(c *cli.Context) error {
			return e.close()
		},
		Commands: []*cli.Command{
			loginCommand(e),
			logoutCommand(e),
			whoamiCommand(e),
			selectCommand(e),
			insertCommand(e),
			updateCommand(e),
			deleteCommand(e),
			uploadCommand(e),
			publicURLCommand(e),
			objectsCommand(e),
			countCommand(e),
			migrateCommand(e),
		},
	}
}

// parseFilters turns column=value pairs into filters. Values are sent as
// written, so "id=eq.4" and "published=true" both work.
func parseFilters(raw []string) ([]supabase.Filter, error) {
	filters := make([]supabase.Filter, 0, len(raw))
	for _, pair := range raw {
		column, value, ok := strings.Cut(pair, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid filter %q, expected column=value", pair)
		}
		filters = append(filters, supabase.Filter{Column: column, Value: value})
	}
	return filters, nil
}

func parseData(raw string) (json.RawMessage, error) {
	if raw == "" {
		return nil, fmt.Errorf("--data is required")
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func requireArgs(c *cli.Context, names ...string) error {
	if c.NArg() < len(names) {
		return fmt.Errorf("missing arguments, expected %s", strings.Join(names, " "))
	}
	return nil
}
