package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/appsim/appsim/pkg/apiclient"
	"github.com/appsim/appsim/pkg/auth"
	"github.com/appsim/appsim/pkg/config"
	"github.com/appsim/appsim/pkg/directory"
	"github.com/appsim/appsim/pkg/kvstore"
	"github.com/appsim/appsim/pkg/logging"
	"github.com/appsim/appsim/pkg/mockapi"
)

var demoEphemeral bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Interactive walkthrough of the auth and directory flows",
	Long: `Runs the full simulation in the terminal: sign in or sign up against
the seeded account store, then browse, search, and edit the user
directory served by the in-process mock API.

Session and directory state persist across runs under the data
directory unless --ephemeral is set. The seeded credential is
demo@example.com / password123.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: logging.ParseFormat(cfg.LogFormat),
		})

		d := &demo{cfg: cfg, ctx: cmd.Context()}
		if err := d.setup(log); err != nil {
			return err
		}
		return d.run()
	},
}

// demo holds the wired-up application state for one interactive run.
type demo struct {
	cfg *config.Config
	ctx context.Context

	auth  *auth.Store
	users *directory.Store
	api   *apiclient.Client
}

func (d *demo) setup(log *slog.Logger) error {
	var authKV, userKV kvstore.Store
	if demoEphemeral {
		authKV = kvstore.NewMemory()
		userKV = kvstore.NewMemory()
	} else {
		var err error
		if authKV, err = kvstore.NewFile(filepath.Join(d.cfg.DataDir, "auth.json")); err != nil {
			return err
		}
		if userKV, err = kvstore.NewFile(filepath.Join(d.cfg.DataDir, "users.json")); err != nil {
			return err
		}
	}

	d.auth = auth.NewStore(auth.Options{
		KV:     authKV,
		Delay:  d.cfg.Latency,
		Logger: log,
	})
	d.users = directory.NewStore(directory.Options{
		KV:     userKV,
		Logger: log,
	})

	svc := mockapi.NewUserService(d.cfg.SlowDelay)
	router := mockapi.NewRouter(mockapi.RouterOptions{Strict: true, Logger: log}, svc.Routes()...)
	d.api = apiclient.New(d.cfg.BaseURL, apiclient.WithHTTPClient(d.cfg.NewHTTPClient(router)))

	// Echo every auth transition so the simulated latency is visible.
	d.auth.Subscribe(func(s auth.State) {
		switch {
		case s.Loading:
			fmt.Println("  ... working")
		case s.Err != "":
			fmt.Printf("  !! %s\n", s.Err)
		case s.Authenticated:
			fmt.Printf("  signed in as %s %s <%s>\n", s.Session.FirstName, s.Session.LastName, s.Session.Email)
		default:
			fmt.Println("  signed out")
		}
	})
	return nil
}

func (d *demo) run() error {
	for {
		var action string
		opts := []huh.Option[string]{}
		if d.auth.State().Authenticated {
			opts = append(opts,
				huh.NewOption("Browse users", "browse"),
				huh.NewOption("Search users", "search"),
				huh.NewOption("Create user", "create"),
				huh.NewOption("Delete user", "delete"),
				huh.NewOption("Sign out", "logout"),
			)
		} else {
			opts = append(opts,
				huh.NewOption("Sign in", "login"),
				huh.NewOption("Sign up", "signup"),
				huh.NewOption("Forgot password", "forgot"),
			)
		}
		opts = append(opts, huh.NewOption("Quit", "quit"))

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What next?").
				Options(opts...).
				Value(&action),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch action {
		case "login":
			err = d.login()
		case "signup":
			err = d.signup()
		case "forgot":
			err = d.forgotPassword()
		case "logout":
			d.auth.Logout()
		case "browse":
			err = d.browse()
		case "search":
			err = d.search()
		case "create":
			err = d.createUser()
		case "delete":
			err = d.deleteUser()
		case "quit":
			return nil
		}
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			return err
		}
	}
}

func (d *demo) login() error {
	var email, password string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("demo@example.com").
			Value(&email).
			Validate(requireValue("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(requireValue("password")),
	))
	if err := form.Run(); err != nil {
		return err
	}
	d.auth.Login(d.ctx, email, password)
	return nil
}

func (d *demo) signup() error {
	var email, password, firstName, lastName string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&firstName).Validate(requireValue("first name")),
		huh.NewInput().Title("Last name").Value(&lastName).Validate(requireValue("last name")),
		huh.NewInput().Title("Email").Value(&email).Validate(requireValue("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(func(s string) error {
				if len(s) < 8 {
					return errors.New("password must be at least 8 characters")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}
	d.auth.Signup(d.ctx, email, password, firstName, lastName)
	return nil
}

func (d *demo) forgotPassword() error {
	var email string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Account email").Value(&email).Validate(requireValue("email")),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if d.auth.ForgotPassword(d.ctx, email) {
		fmt.Println("  reset link sent (simulated)")
	}
	return nil
}

func (d *demo) browse() error {
	users, err := d.api.List(d.ctx)
	if err != nil {
		return err
	}
	d.users.SetUsers(users)

	var choice string
	opts := make([]huh.Option[string], 0, len(users))
	for _, u := range users {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s <%s>", u.Name, u.Email), strconv.Itoa(u.ID)))
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("%d users", len(users))).
			Options(opts...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	id, _ := strconv.Atoi(choice)
	user, err := d.api.Get(d.ctx, id)
	if err != nil {
		return err
	}
	d.users.SetSelectedUser(&user)
	printProfile(user)
	return nil
}

func (d *demo) search() error {
	var q string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Search by name, email, or username").Value(&q),
	))
	if err := form.Run(); err != nil {
		return err
	}

	matches, err := d.api.Search(d.ctx, q)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("  no matches")
		return nil
	}
	for _, u := range matches {
		fmt.Printf("  #%d %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}

func (d *demo) createUser() error {
	var name, email, username string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full name").Value(&name).Validate(requireValue("name")),
		huh.NewInput().Title("Email").Value(&email).Validate(requireValue("email")),
		huh.NewInput().Title("Username").Value(&username),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if username == "" {
		username = strings.ToLower(strings.ReplaceAll(name, " ", "."))
	}

	created, err := d.api.Create(d.ctx, directory.UserProfile{Name: name, Email: email, Username: username})
	if err != nil {
		return err
	}
	d.users.AddUser(created)
	fmt.Printf("  created #%d %s\n", created.ID, created.Name)
	return nil
}

func (d *demo) deleteUser() error {
	var raw string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("User id to delete").Value(&raw).Validate(func(s string) error {
			if _, err := strconv.Atoi(s); err != nil {
				return errors.New("id must be a number")
			}
			return nil
		}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	id, _ := strconv.Atoi(raw)
	if err := d.api.Delete(d.ctx, id); err != nil {
		if apiclient.IsNotFound(err) {
			fmt.Printf("  no user with id %d\n", id)
			return nil
		}
		return err
	}
	d.users.RemoveUser(id)
	fmt.Printf("  deleted #%d\n", id)
	return nil
}

func printProfile(u directory.UserProfile) {
	fmt.Printf("  #%d %s (@%s)\n", u.ID, u.Name, u.Username)
	fmt.Printf("  %s | %s | %s\n", u.Email, u.Phone, u.Website)
	fmt.Printf("  %s %s, %s %s\n", u.Address.Street, u.Address.Suite, u.Address.City, u.Address.Zipcode)
	fmt.Printf("  %s: %s\n", u.Company.Name, u.Company.CatchPhrase)
}

func requireValue(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().BoolVar(&demoEphemeral, "ephemeral", false, "Keep all state in memory, persist nothing")
}
