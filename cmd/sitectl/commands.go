package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"unreal-studio/internal/database"
	"unreal-studio/internal/supabase"
)

var filterFlag = &cli.StringSliceFlag{
	Name:    "filter",
	Aliases: []string{"f"},
	Usage:   "column=value, repeatable",
}

var dataFlag = &cli.StringFlag{
	Name:    "data",
	Aliases: []string{"d"},
	Usage:   "JSON row or array of rows",
}

func loginCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"SITECTL_PASSWORD"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			client, err := e.supabase()
			if err != nil {
				return err
			}
			result, err := client.SignIn(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			email, _ := result.User["email"].(string)
			if email == "" {
				email = c.String("email")
			}
			_, err = fmt.Fprintf(e.out, "Signed in as %s\n", email)
			return err
		},
	}
}

func logoutCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the saved session",
		Action: func(c *cli.Context) error {
			client, err := e.supabase()
			if err != nil {
				return err
			}
			client.SignOut()
			_, err = fmt.Fprintln(e.out, "Signed out")
			return err
		},
	}
}

func whoamiCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user",
		Action: func(c *cli.Context) error {
			client, err := e.supabase()
			if err != nil {
				return err
			}
			user := client.GetUser(c.Context)
			if user == nil {
				return fmt.Errorf("not signed in")
			}

			out := map[string]any{"user": user}
			if claims, err := supabase.TokenClaims(client.AccessToken()); err == nil {
				out["role"] = claims.Role
				out["expired"] = claims.Expired(time.Now())
				if !claims.ExpiresAt.IsZero() {
					out["expires_at"] = claims.ExpiresAt.Format(time.RFC3339)
				}
			}
			return e.printJSON(out)
		},
	}
}

func selectCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "read rows from a table",
		ArgsUsage: "TABLE",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "columns", Aliases: []string{"c"}, Usage: "columns to return"},
			filterFlag,
			&cli.StringFlag{Name: "order", Aliases: []string{"o"}, Usage: "column.asc or column.desc"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}},
			&cli.IntFlag{Name: "offset"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "TABLE"); err != nil {
				return err
			}
			filters, err := parseFilters(c.StringSlice("filter"))
			if err != nil {
				return err
			}
			opts := supabase.QueryOptions{
				Columns: c.StringSlice("columns"),
				Filters: filters,
				Limit:   c.Int("limit"),
				Offset:  c.Int("offset"),
			}
			if raw := c.String("order"); raw != "" {
				if opts.Order, err = supabase.ParseOrder(raw); err != nil {
					return err
				}
			}

			client, err := e.supabase()
			if err != nil {
				return err
			}
			rows, err := client.Select(c.Context, c.Args().First(), opts)
			if err != nil {
				return err
			}
			return e.printJSON(rows)
		},
	}
}

func insertCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "insert",
		Usage:     "insert rows into a table",
		ArgsUsage: "TABLE",
		Flags:     []cli.Flag{dataFlag},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "TABLE"); err != nil {
				return err
			}
			data, err := parseData(c.String("data"))
			if err != nil {
				return err
			}
			client, err := e.supabase()
			if err != nil {
				return err
			}
			rows, err := client.Insert(c.Context, c.Args().First(), data)
			if err != nil {
				return err
			}
			return e.printJSON(rows)
		},
	}
}

func updateCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "patch rows matching the filters",
		ArgsUsage: "TABLE",
		Flags:     []cli.Flag{dataFlag, filterFlag},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "TABLE"); err != nil {
				return err
			}
			data, err := parseData(c.String("data"))
			if err != nil {
				return err
			}
			filters, err := requiredFilters(c)
			if err != nil {
				return err
			}
			client, err := e.supabase()
			if err != nil {
				return err
			}
			rows, err := client.Update(c.Context, c.Args().First(), data, filters)
			if err != nil {
				return err
			}
			return e.printJSON(rows)
		},
	}
}

func deleteCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete rows matching the filters",
		ArgsUsage: "TABLE",
		Flags:     []cli.Flag{filterFlag},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "TABLE"); err != nil {
				return err
			}
			filters, err := requiredFilters(c)
			if err != nil {
				return err
			}
			client, err := e.supabase()
			if err != nil {
				return err
			}
			rows, err := client.Delete(c.Context, c.Args().First(), filters)
			if err != nil {
				return err
			}
			return e.printJSON(rows)
		},
	}
}

// requiredFilters refuses to touch every row of a table.
func requiredFilters(c *cli.Context) ([]supabase.Filter, error) {
	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("at least one --filter is required")
	}
	return filters, nil
}

func uploadCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload a local file to a bucket",
		ArgsUsage: "BUCKET FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "object path, defaults to the file name"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "BUCKET", "FILE"); err != nil {
				return err
			}
			bucket, local := c.Args().Get(0), c.Args().Get(1)
			objectPath := c.String("path")
			if objectPath == "" {
				objectPath = filepath.Base(local)
			}

			file, err := os.Open(local)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			client, err := e.supabase()
			if err != nil {
				return err
			}
			if _, err := client.UploadFile(c.Context, bucket, objectPath, file); err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, client.PublicURL(bucket, objectPath))
			return err
		},
	}
}

func publicURLCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "public-url",
		Usage:     "print the public URL of an object",
		ArgsUsage: "BUCKET PATH",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "BUCKET", "PATH"); err != nil {
				return err
			}
			client, err := e.supabase()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, client.PublicURL(c.Args().Get(0), c.Args().Get(1)))
			return err
		},
	}
}

func objectsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "objects",
		Usage: "inspect and tidy bucket contents",
		Subcommands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "list objects under a prefix",
				ArgsUsage: "BUCKET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix"},
					&cli.IntFlag{Name: "limit", Value: 100},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, "BUCKET"); err != nil {
						return err
					}
					client, err := e.supabase()
					if err != nil {
						return err
					}
					names, err := client.Bucket(c.Args().First()).List(c.String("prefix"), c.Int("limit"))
					if err != nil {
						return err
					}
					for _, name := range names {
						if _, err := fmt.Fprintln(e.out, name); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "remove objects",
				ArgsUsage: "BUCKET PATH...",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, "BUCKET", "PATH..."); err != nil {
						return err
					}
					client, err := e.supabase()
					if err != nil {
						return err
					}
					paths := c.Args().Slice()[1:]
					if err := client.Bucket(c.Args().First()).Remove(paths...); err != nil {
						return err
					}
					_, err = fmt.Fprintf(e.out, "Removed %d object(s)\n", len(paths))
					return err
				},
			},
			{
				Name:      "get",
				Usage:     "download an object",
				ArgsUsage: "BUCKET PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to this file instead of stdout"},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, "BUCKET", "PATH"); err != nil {
						return err
					}
					client, err := e.supabase()
					if err != nil {
						return err
					}
					body, err := client.Bucket(c.Args().Get(0)).Download(c.Args().Get(1))
					if err != nil {
						return err
					}
					if out := c.String("out"); out != "" {
						if err := os.WriteFile(out, body, 0o644); err != nil {
							return fmt.Errorf("failed to write file: %w", err)
						}
						return nil
					}
					_, err = e.out.Write(body)
					return err
				},
			},
		},
	}
}

func countCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "count the rows of a table visible to the session",
		ArgsUsage: "TABLE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "TABLE"); err != nil {
				return err
			}
			client, err := e.supabase()
			if err != nil {
				return err
			}
			inspector, err := client.Inspector()
			if err != nil {
				return err
			}
			n, err := inspector.Count(c.Args().First())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, n)
			return err
		},
	}
}

func migrateCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending schema migrations to DATABASE_URL",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "list", Usage: "print the embedded migrations and exit"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("list") {
				migrations, err := database.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					if _, err := fmt.Fprintln(e.out, m.Name); err != nil {
						return err
					}
				}
				return nil
			}

			if e.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			migrator, err := database.NewMigrator(c.Context, e.cfg.DatabaseURL, e.logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			applied, err := migrator.Run(c.Context)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				_, err = fmt.Fprintln(e.out, "Schema is up to date")
				return err
			}
			for _, name := range applied {
				if _, err := fmt.Fprintln(e.out, "Applied", name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
