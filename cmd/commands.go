package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tierlist-client/internal/config"
	"tierlist-client/internal/models"
	"tierlist-client/internal/screens"
	"tierlist-client/internal/services"
	"tierlist-client/internal/session"
	"tierlist-client/internal/tierrank"

	"github.com/rs/zerolog/log"
)

type app struct {
	cfg       *config.Config
	store     *session.Store
	tierlists *services.TierlistService
	users     *services.UserService
	active    *services.ActiveService
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.store.Clear()
	case "whoami":
		return a.whoami(ctx)
	case "list":
		return a.list(ctx)
	case "show":
		return a.show(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "rename":
		return a.rename(ctx, args)
	case "publish":
		return a.setPublic(ctx, args, true)
	case "unpublish":
		return a.setPublic(ctx, args, false)
	case "delete":
		return a.delete(ctx, args)
	case "activate":
		return a.activate(ctx, args)
	case "active":
		return a.showActive(ctx)
	case "public":
		return a.public(ctx)
	case "add":
		return a.addItem(ctx, args)
	case "move":
		return a.moveItem(ctx, args)
	case "rm":
		return a.removeItem(ctx, args)
	case "profile":
		return a.profile(ctx, args)
	case "passwd":
		return a.passwd(ctx, args)
	case "delete-account":
		return a.deleteAccount(ctx)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}
	return fmt.Errorf("unknown command %q (try 'tierlist help')", command)
}

// login stores the supplied bearer token, resolves the user behind it
// and persists the pair. Obtaining the token is the registration flow's
// job, not this client's.
func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("usage: tierlist login <token>")
	}

	// Save the token with a placeholder id so the resolving call is
	// authenticated, then persist the real pair.
	if err := a.store.Save(args[0], 0); err != nil {
		return err
	}

	user, err := a.users.Current(ctx)
	if err != nil {
		// An unusable token is not a session; don't keep it around.
		_ = a.store.Clear()
		return fmt.Errorf("token rejected: %w", err)
	}

	if err := a.store.Save(args[0], user.ID); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (id %d).\n", user.Username, user.ID)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.users.Current(ctx)
	if err != nil {
		return err
	}
	email := "-"
	if user.Email != nil {
		email = *user.Email
	}
	fmt.Printf("%s (id %d, email %s)\n", user.Username, user.ID, email)
	return nil
}

func (a *app) list(ctx context.Context) error {
	userID, err := a.requireUser()
	if err != nil {
		return err
	}

	home := screens.NewHomeScreen(a.tierlists, a.active, userID)
	home.Load(ctx)
	if home.Err != nil {
		return home.Err
	}
	if home.ActiveErr != nil {
		fmt.Fprintln(os.Stderr, "Could not check which tierlist is active.")
		log.Debug().Err(home.ActiveErr).Msg("Active marker read failed")
	}

	if len(home.Rows) == 0 {
		fmt.Println("No tierlists yet. Create one with 'tierlist create <name>'.")
		return nil
	}
	for _, row := range home.Rows {
		marker := " "
		switch row.State {
		case services.StateActive:
			marker = "*"
		case services.StateActiveDetailsUnavailable:
			marker = "?"
		}
		visibility := "private"
		if row.Tierlist.IsPublic {
			visibility = "public"
		}
		fmt.Printf("%s %4d  %-30s %s\n", marker, row.Tierlist.ID, row.Tierlist.Name, visibility)
	}
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}

	editor := screens.NewEditorScreen(a.tierlists, a.cfg.Scheme)
	editor.Load(ctx, id)
	if editor.Err != nil {
		return editor.Err
	}

	fmt.Printf("%s (id %d)\n", editor.Tierlist.Name, editor.Tierlist.ID)
	if editor.Tierlist.Description != "" {
		fmt.Println(editor.Tierlist.Description)
	}
	for r := tierrank.MinRank; r <= tierrank.MaxRank; r++ {
		label, _ := a.cfg.Scheme.Label(r)
		names := make([]string, 0, len(editor.Buckets[r]))
		for _, item := range editor.Buckets[r] {
			names = append(names, fmt.Sprintf("%s(%d)", item.Name, item.ID))
		}
		fmt.Printf("%-3s| %s\n", label, strings.Join(names, ", "))
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	public := fs.Bool("public", false, "make the tierlist publicly visible")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("usage: tierlist create [--public] <name> [description]")
	}
	description := ""
	if len(rest) > 1 {
		description = strings.Join(rest[1:], " ")
	}

	userID, err := a.requireUser()
	if err != nil {
		return err
	}

	created, err := a.tierlists.Create(ctx, userID, rest[0], description, *public)
	if err != nil {
		return err
	}
	fmt.Printf("Created tierlist %q (id %d).\n", created.Name, created.ID)
	return nil
}

func (a *app) rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tierlist rename <id> <name>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tierlist id %q", args[0])
	}
	name := strings.Join(args[1:], " ")

	updated, err := a.tierlists.Update(ctx, id, models.TierlistPatch{Name: &name})
	if err != nil {
		return err
	}
	fmt.Printf("Renamed tierlist %d to %q.\n", updated.ID, updated.Name)
	return nil
}

func (a *app) setPublic(ctx context.Context, args []string, public bool) error {
	id, err := parseID(args, "publish|unpublish <id>")
	if err != nil {
		return err
	}
	if _, err := a.tierlists.Update(ctx, id, models.TierlistPatch{IsPublic: &public}); err != nil {
		return err
	}
	if public {
		fmt.Printf("Tierlist %d is now public.\n", id)
	} else {
		fmt.Printf("Tierlist %d is now private.\n", id)
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.tierlists.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted tierlist %d.\n", id)
	return nil
}

func (a *app) activate(ctx context.Context, args []string) error {
	id, err := parseID(args, "activate <id>")
	if err != nil {
		return err
	}
	userID, err := a.requireUser()
	if err != nil {
		return err
	}

	active, err := a.active.Set(ctx, userID, id)
	if err != nil {
		return err
	}
	if active == nil {
		return fmt.Errorf("activation did not stick for tierlist %d", id)
	}
	fmt.Printf("Active tierlist is now %q (id %d).\n", active.Name, active.ID)
	return nil
}

func (a *app) showActive(ctx context.Context) error {
	userID, err := a.requireUser()
	if err != nil {
		return err
	}

	active, err := a.active.Get(ctx, userID)
	if err != nil {
		return err
	}
	if active == nil {
		fmt.Println("No active tierlist.")
		return nil
	}
	fmt.Printf("%s (id %d)\n", active.Name, active.ID)
	return nil
}

func (a *app) public(ctx context.Context) error {
	browse := screens.NewPublicScreen(a.tierlists)
	browse.Load(ctx)
	if browse.Err != nil {
		return browse.Err
	}

	if len(browse.Lists) == 0 {
		fmt.Println("No public tierlists.")
		return nil
	}
	for _, tl := range browse.Lists {
		fmt.Printf("%4d  %-30s by user %d\n", tl.ID, tl.Name, tl.UserID)
	}
	return nil
}

func (a *app) addItem(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: tierlist add <tierlist-id> <tier> <name>")
	}
	tierlistID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tierlist id %q", args[0])
	}
	rank, err := a.parseTier(args[1])
	if err != nil {
		return err
	}
	name := strings.Join(args[2:], " ")

	item, err := a.tierlists.AddItem(ctx, tierlistID, rank, name)
	if err != nil {
		return err
	}
	label, _ := a.cfg.Scheme.Label(tierrank.Rank(item.Rank))
	fmt.Printf("Added %q (id %d) to tier %s.\n", item.Name, item.ID, label)
	return nil
}

func (a *app) moveItem(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: tierlist move <tierlist-id> <item-id> up|down")
	}
	tierlistID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tierlist id %q", args[0])
	}
	itemID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[1])
	}

	var dir services.Direction
	switch args[2] {
	case "up":
		dir = services.MoveUp
	case "down":
		dir = services.MoveDown
	default:
		return fmt.Errorf("direction must be \"up\" or \"down\", got %q", args[2])
	}

	// Items are only addressable through their tierlist's listing.
	items, err := a.tierlists.Items(ctx, tierlistID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == itemID {
			rank, err := a.tierlists.MoveItem(ctx, item, dir)
			if err != nil {
				return err
			}
			label, _ := a.cfg.Scheme.Label(rank)
			fmt.Printf("%q is now in tier %s.\n", item.Name, label)
			return nil
		}
	}
	return fmt.Errorf("item %d not found in tierlist %d", itemID, tierlistID)
}

func (a *app) removeItem(ctx context.Context, args []string) error {
	id, err := parseID(args, "rm <item-id>")
	if err != nil {
		return err
	}
	if err := a.tierlists.DeleteItem(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted item %d.\n", id)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	username := fs.String("username", "", "new username")
	email := fs.String("email", "", "new email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile := screens.NewProfileScreen(a.users)
	profile.Load(ctx)
	if profile.Err != nil {
		return profile.Err
	}

	if *username == "" && *email == "" {
		return a.whoami(ctx)
	}

	var patch models.UserPatch
	if *username != "" {
		patch.Username = username
	}
	if *email != "" {
		patch.Email = email
	}
	if err := profile.Update(ctx, patch); err != nil {
		return err
	}
	fmt.Println("Profile updated.")
	return nil
}

func (a *app) passwd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: tierlist passwd <new> <confirm>")
	}
	userID, err := a.requireUser()
	if err != nil {
		return err
	}
	if err := a.users.ChangePassword(ctx, userID, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("Password changed.")
	return nil
}

func (a *app) deleteAccount(ctx context.Context) error {
	userID, err := a.requireUser()
	if err != nil {
		return err
	}

	fmt.Print("This permanently deletes your account. Type the account id to confirm: ")
	var confirm string
	fmt.Fscanln(os.Stdin, &confirm)
	if confirm != strconv.FormatInt(userID, 10) {
		return fmt.Errorf("confirmation did not match, account kept")
	}

	if err := a.users.DeleteAccount(ctx, userID); err != nil {
		return err
	}
	fmt.Println("Account deleted.")
	return nil
}

// requireUser returns the stored user id or instructs the caller to
// sign in.
func (a *app) requireUser() (int64, error) {
	id, ok := a.store.UserID()
	if !ok || id == 0 {
		return 0, fmt.Errorf("not signed in; run 'tierlist login <token>'")
	}
	return id, nil
}

// parseTier accepts either a tier label under the configured scheme or
// a numeric rank.
func (a *app) parseTier(value string) (tierrank.Rank, error) {
	if rank, err := a.cfg.Scheme.RankOf(strings.ToUpper(value)); err == nil {
		return rank, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || !tierrank.Rank(n).Valid() {
		return 0, fmt.Errorf("tier must be one of %s or a rank 1-7, got %q",
			strings.Join(a.cfg.Scheme.Labels(), ", "), value)
	}
	return tierrank.Rank(n), nil
}

func parseID(args []string, usageHint string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: tierlist %s", usageHint)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
