package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/adapter"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/caarlos0/env/v11"
)

var (
	errUsage              = errors.New("usage: user-keeper-client [flags] <login|refresh|list|me|get|create|update|delete> [args]")
	errUnknownCommand     = errors.New("unknown command")
	errMissingCredentials = errors.New("username and password or an access token are required")
	errMissingArgument    = errors.New("missing argument")
)

// options are read from the environment first and then from flags.
type options struct {
	Address      string        `env:"USER_KEEPER_ADDRESS" envDefault:"localhost:8080"`
	Timeout      time.Duration `env:"USER_KEEPER_TIMEOUT" envDefault:"10s"`
	Username     string        `env:"USER_KEEPER_USERNAME"`
	Password     string        `env:"USER_KEEPER_PASSWORD"`
	AccessToken  string        `env:"USER_KEEPER_ACCESS_TOKEN"`
	RefreshToken string        `env:"USER_KEEPER_REFRESH_TOKEN"`
	Verbose      bool          `env:"USER_KEEPER_VERBOSE"`
}

type clientFactory func(opts options) (adapter.APIClient, error)

type cli struct {
	newClient clientFactory
	// environ overrides the process environment when non-nil.
	environ map[string]string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (c *cli) parseOptions(args []string) (options, []string, error) {
	var opts options
	if err := env.ParseWithOptions(&opts, env.Options{Environment: c.environ}); err != nil {
		return opts, nil, fmt.Errorf("error parsing environment: %w", err)
	}

	fs := flag.NewFlagSet("user-keeper-client", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	fs.StringVar(&opts.Address, "a", opts.Address, "API address (host:port or URL)")
	fs.DurationVar(&opts.Timeout, "t", opts.Timeout, "request timeout")
	fs.StringVar(&opts.Username, "u", opts.Username, "username")
	fs.StringVar(&opts.Password, "p", opts.Password, "password")
	fs.StringVar(&opts.AccessToken, "token", opts.AccessToken, "access token, skips login")
	fs.StringVar(&opts.RefreshToken, "refresh", opts.RefreshToken, "refresh token for the refresh command")
	fs.BoolVar(&opts.Verbose, "v", opts.Verbose, "log requests to stderr")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() == 0 {
		return opts, nil, errUsage
	}

	return opts, fs.Args(), nil
}

func (c *cli) run(ctx context.Context, args []string) error {
	opts, rest, err := c.parseOptions(args)
	if err != nil {
		return err
	}

	client, err := c.newClient(opts)
	if err != nil {
		return err
	}

	command, cmdArgs := rest[0], rest[1:]

	switch command {
	case "login":
		if opts.Username == "" || opts.Password == "" {
			return errMissingCredentials
		}
		tokens, err := client.Login(ctx, models.Credentials{Username: opts.Username, Password: opts.Password})
		if err != nil {
			return err
		}
		return c.print(tokens)
	case "refresh":
		if opts.RefreshToken == "" {
			return adapter.ErrNoRefreshToken
		}
		client.SetTokens(models.TokenPair{Refresh: opts.RefreshToken})
		tokens, err := client.Refresh(ctx)
		if err != nil {
			return err
		}
		return c.print(tokens)
	}

	if err = authenticate(ctx, client, opts); err != nil {
		return err
	}

	switch command {
	case "list":
		users, err := client.ListUsers(ctx)
		if err != nil {
			return err
		}
		return c.print(users)
	case "me":
		user, err := client.Me(ctx)
		if err != nil {
			return err
		}
		return c.print(user)
	case "get":
		id, err := argAt(cmdArgs, 0, "id")
		if err != nil {
			return err
		}
		user, err := client.GetUser(ctx, id)
		if err != nil {
			return err
		}
		return c.print(user)
	case "create":
		var input models.CreateUserInput
		if err = c.readInput(cmdArgs, 0, &input); err != nil {
			return err
		}
		user, err := client.CreateUser(ctx, input)
		if err != nil {
			return err
		}
		return c.print(user)
	case "update":
		id, err := argAt(cmdArgs, 0, "id")
		if err != nil {
			return err
		}
		var input models.UpdateUserInput
		if err = c.readInput(cmdArgs, 1, &input); err != nil {
			return err
		}
		user, err := client.UpdateUser(ctx, id, input)
		if err != nil {
			return err
		}
		return c.print(user)
	case "delete":
		id, err := argAt(cmdArgs, 0, "id")
		if err != nil {
			return err
		}
		if err = client.DeleteUser(ctx, id); err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.out, "deleted %s\n", id)
		return err
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, command)
	}
}

// authenticate uses the access token when one is given and logs in
// otherwise.
func authenticate(ctx context.Context, client adapter.APIClient, opts options) error {
	if opts.AccessToken != "" {
		client.SetTokens(models.TokenPair{Access: opts.AccessToken, Refresh: opts.RefreshToken})
		return nil
	}
	if opts.Username == "" || opts.Password == "" {
		return errMissingCredentials
	}

	_, err := client.Login(ctx, models.Credentials{Username: opts.Username, Password: opts.Password})
	return err
}

func argAt(args []string, i int, name string) (string, error) {
	if len(args) <= i || args[i] == "" {
		return "", fmt.Errorf("%w: %s", errMissingArgument, name)
	}
	return args[i], nil
}

// readInput decodes the JSON document at args[i]. A missing argument or
// "-" reads it from stdin.
func (c *cli) readInput(args []string, i int, dst any) error {
	var raw []byte
	if len(args) > i && args[i] != "-" {
		raw = []byte(args[i])
	} else {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		raw = data
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	return nil
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
