package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tierlist-client/internal/api"
	"tierlist-client/internal/config"
	"tierlist-client/internal/services"
	"tierlist-client/internal/session"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: tierlist <command> [arguments]

Session:
  login <token>               store a bearer token and resolve the user
  logout                      clear the stored session
  whoami                      show the signed-in user

Tierlists:
  list                        list your tierlists and the active one
  show <id>                   show a tierlist bucketed into tiers
  create <name> [description] create a tierlist (--public to publish)
  rename <id> <name>          rename a tierlist
  publish <id> | unpublish <id>
  delete <id>                 delete a tierlist and all of its items
  activate <id>               mark a tierlist as your active one
  active                      show your active tierlist
  public                      browse public tierlists

Items:
  add <tierlist-id> <tier> <name>   add an item (tier label or rank 1-7)
  move <tierlist-id> <item-id> up|down
  rm <item-id>                      delete an item

Account:
  profile [--username u] [--email e]
  passwd <new> <confirm>
  delete-account
`

// Run is the CLI entry point. It wires configuration, logging, the
// session store, the API gateway, and the services, then dispatches a
// single subcommand.
func Run() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer store.Close()

	baseURL, err := cfg.BaseURL()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve API base URL")
	}

	gateway := api.NewClient(baseURL, store, cfg.API.Timeout())
	app := &app{
		cfg:       cfg,
		store:     store,
		tierlists: services.NewTierlistService(gateway),
		users:     services.NewUserService(gateway, store),
	}
	app.active = services.NewActiveService(gateway, app.tierlists)

	if err := app.dispatch(context.Background(), args[0], args[1:]); err != nil {
		renderError(err)
		os.Exit(1)
	}
}

// setupLogger configures zerolog.
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func configPath() string {
	if p := os.Getenv("TIERLIST_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// renderError distinguishes the error classes the user acts on
// differently: an expired session routes to login, a halted fan-out
// delete reports what was and wasn't removed, a rejected request gets
// its mapped message, anything else prints generically.
func renderError(err error) {
	renderErrorTo(os.Stderr, err)
}

func renderErrorTo(w io.Writer, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintln(w, "Session expired. Run 'tierlist login <token>' to sign in again.")
		return
	}

	// A halted delete wraps the failing item's server response, so it
	// must be recognized before the generic rejected-request class.
	var partial *services.PartialDeleteError
	if errors.As(err, &partial) {
		fmt.Fprintf(w, "Delete stopped partway: %d item(s) removed, %d left. The tierlist was kept. Retry to finish.\n",
			partial.Deleted, partial.Remaining)
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(w, apiErr.Message())
		log.Debug().Err(err).Msg("Request rejected")
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
}
