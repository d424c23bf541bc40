// Package cli implements the interactive shell operators use to drive the
// CRM: a login gate followed by per-entity menus. All business rules live
// in the services; the shell only collects input and renders results.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// App wires the service layer to an interactive terminal.
type App struct {
	auth      ports.AuthService
	users     ports.UserService
	clients   ports.ClientService
	contracts ports.ContractService
	events    ports.EventService

	in  *bufio.Reader
	out io.Writer
	log zerolog.Logger

	sess *domain.Session
	eof  bool
}

func NewApp(
	auth ports.AuthService,
	users ports.UserService,
	clients ports.ClientService,
	contracts ports.ContractService,
	events ports.EventService,
	in io.Reader,
	out io.Writer,
	log zerolog.Logger,
) *App {
	return &App{
		auth:      auth,
		users:     users,
		clients:   clients,
		contracts: contracts,
		events:    events,
		in:        bufio.NewReader(in),
		out:       out,
		log:       log,
	}
}

// Run drives the shell until the operator quits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.println("Epic Events CRM")

	if sess, ok := a.auth.Resume(ctx); ok {
		a.sess = sess
		fmt.Fprintf(a.out, "Welcome back, %s (%s). Session expires in %s.\n",
			sess.Username, sess.Role, formatSessionAge(sess.CreatedAt))
	}

	for {
		if a.sess == nil || !a.sess.Valid() {
			if a.sess != nil {
				a.println("Your session has expired. Please log in again.")
				a.sess = nil
			}
			if !a.login(ctx) {
				return nil
			}
		}
		if !a.mainMenu(ctx) {
			return nil
		}
	}
}

// login prompts for credentials until a session is established or the
// operator gives up with an empty username. Exhausted input also quits.
func (a *App) login(ctx context.Context) bool {
	for {
		username := a.prompt("Username (blank to quit)")
		if a.eof || username == "" {
			return false
		}
		password := a.prompt("Password")
		if a.eof {
			return false
		}

		sess, err := a.auth.Login(ctx, username, password)
		if err != nil {
			a.showError(err)
			continue
		}
		a.sess = sess
		fmt.Fprintf(a.out, "Logged in as %s (%s).\n", sess.Username, sess.Role)
		return true
	}
}

// mainMenu shows the top-level choices. Returns false when the operator
// quits or input ends.
func (a *App) mainMenu(ctx context.Context) bool {
	for a.sess != nil && a.sess.Valid() {
		if a.eof {
			return false
		}
		a.println("")
		a.println("1. Clients")
		a.println("2. Contracts")
		a.println("3. Events")
		a.println("4. Users")
		a.println("5. Logout")
		a.println("6. Quit")

		choice := a.prompt("Choice")
		if a.eof {
			return false
		}
		switch choice {
		case "1":
			a.clientMenu(ctx)
		case "2":
			a.contractMenu(ctx)
		case "3":
			a.eventMenu(ctx)
		case "4":
			a.userMenu(ctx)
		case "5":
			a.auth.Logout(a.sess)
			a.sess = nil
			a.println("Logged out.")
			return true
		case "6":
			return false
		default:
			a.println("Unknown choice.")
		}
	}
	return true
}
