package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/epic-events/crm-system/internal/core/domain"
)

const displayTimeLayout = "02-01-2006 15:04"

// showError prints exactly one message line for a failed operation. The
// message comes from the kind table, so unclassified failures render as
// the generic technical error; those also go to the log with their cause.
func (a *App) showError(err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindDatabaseError {
		a.log.Error().Err(err).Msg("operation failed with unclassified error")
	}
	fmt.Fprintf(a.out, "Error: %s\n", domain.MessageFor(kind))
}

func (a *App) showInputError(err error) {
	fmt.Fprintf(a.out, "Error: %s\n", err)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

func (a *App) showUsers(users []*domain.User) {
	if len(users) == 0 {
		a.println("No users found.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\n",
			u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.Role)
	}
	w.Flush()
}

func (a *App) showClients(clients []*domain.Client) {
	if len(clients) == 0 {
		a.println("No clients found.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tBUSINESS\tTELEPHONE\tCOMMERCIAL\tLAST UPDATE")
	for _, c := range clients {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.DisplayName(), c.Email,
			orDash(c.BusinessName), orDash(c.Telephone),
			idOrDash(c.CommercialContactID),
			c.LastUpdate.Local().Format(displayTimeLayout))
	}
	w.Flush()
}

func (a *App) showContracts(contracts []*domain.Contract) {
	if len(contracts) == 0 {
		a.println("No contracts found.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tTOTAL\tREST TO PAY\tSIGNED\tCOMMERCIAL\tCREATED")
	for _, c := range contracts {
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\t%s\t%s\t%s\n",
			c.ID, c.ClientID, c.TotalPrice, c.RestToPay,
			yesNo(c.Signed), idOrDash(c.CommercialContactID),
			c.Creation.Local().Format(displayTimeLayout))
	}
	w.Flush()
}

func (a *App) showEvents(events []*domain.Event) {
	if len(events) == 0 {
		a.println("No events found.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLIENT\tSTART\tEND\tATTENDEES\tLOCATION\tSUPPORT")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.Name, e.ClientID,
			e.StartDatetime.Local().Format(displayTimeLayout),
			e.EndDatetime.Local().Format(displayTimeLayout),
			e.Attendees, orDash(e.Location), idOrDash(e.SupportContactID))
	}
	w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatSessionAge(created time.Time) string {
	remaining := domain.SessionTTL - time.Since(created)
	if remaining < 0 {
		remaining = 0
	}
	return remaining.Round(time.Second).String()
}
