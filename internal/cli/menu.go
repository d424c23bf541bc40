package cli

import (
	"context"
	"fmt"

	"github.com/epic-events/crm-system/internal/core/ports"
)

func (a *App) userMenu(ctx context.Context) {
	a.println("")
	a.println("Users")
	a.println("1. List")
	a.println("2. Create")
	a.println("3. Update")
	a.println("4. Delete")
	a.println("5. Back")

	switch a.prompt("Choice") {
	case "1":
		users, err := a.users.List(ctx, a.sess)
		if err != nil {
			a.showError(err)
			return
		}
		a.showUsers(users)
	case "2":
		a.createUser(ctx)
	case "3":
		a.updateUser(ctx)
	case "4":
		a.deleteUser(ctx)
	}
}

func (a *App) createUser(ctx context.Context) {
	in := ports.CreateUserInput{
		Username:  a.prompt("Username"),
		FirstName: a.prompt("First name"),
		LastName:  a.prompt("Last name"),
		Email:     a.prompt("Email"),
		Role:      a.prompt("Role (commercial/management/support)"),
		Password:  a.prompt("Password"),
	}
	user, err := a.users.Create(ctx, a.sess, in)
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "User %d created.\n", user.ID)
}

func (a *App) updateUser(ctx context.Context) {
	id, err := a.promptInt64("User id")
	if err != nil {
		a.showInputError(err)
		return
	}
	in := ports.UpdateUserInput{
		Username:  a.prompt("Username (blank = keep)"),
		FirstName: a.prompt("First name (blank = keep)"),
		LastName:  a.prompt("Last name (blank = keep)"),
		Email:     a.prompt("Email (blank = keep)"),
		Role:      a.prompt("Role (blank = keep)"),
	}
	user, err := a.users.Update(ctx, a.sess, id, in)
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "User %d updated.\n", user.ID)
}

func (a *App) deleteUser(ctx context.Context) {
	id, err := a.promptInt64("User id")
	if err != nil {
		a.showInputError(err)
		return
	}
	confirm, err := a.promptBool(fmt.Sprintf("Delete user %d and dissociate their records?", id))
	if err != nil || !confirm {
		a.println("Cancelled.")
		return
	}
	if err := a.users.Delete(ctx, a.sess, id); err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "User %d deleted.\n", id)
}

func (a *App) clientMenu(ctx context.Context) {
	a.println("")
	a.println("Clients")
	a.println("1. List")
	a.println("2. Create")
	a.println("3. Update")
	a.println("4. Back")

	switch a.prompt("Choice") {
	case "1":
		clients, err := a.clients.List(ctx, a.sess)
		if err != nil {
			a.showError(err)
			return
		}
		a.showClients(clients)
	case "2":
		a.createClient(ctx)
	case "3":
		a.updateClient(ctx)
	}
}

func (a *App) createClient(ctx context.Context) {
	in := ports.CreateClientInput{
		FirstName:    a.prompt("First name"),
		LastName:     a.prompt("Last name"),
		Email:        a.prompt("Email"),
		BusinessName: a.promptOptStringCreate("Business name"),
		Telephone:    a.promptOptStringCreate("Telephone"),
	}
	client, err := a.clients.Create(ctx, a.sess, in)
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Client %d created.\n", client.ID)
}

func (a *App) updateClient(ctx context.Context) {
	id, err := a.promptInt64("Client id")
	if err != nil {
		a.showInputError(err)
		return
	}
	commercial, err := a.promptOptInt64("Commercial contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	in := ports.UpdateClientInput{
		FirstName:           a.prompt("First name (blank = keep)"),
		LastName:            a.prompt("Last name (blank = keep)"),
		Email:               a.prompt("Email (blank = keep)"),
		BusinessName:        a.promptOptString("Business name"),
		Telephone:           a.promptOptString("Telephone"),
		CommercialContactID: commercial,
	}
	client, err := a.clients.Update(ctx, a.sess, id, in)
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Client %d updated.\n", client.ID)
}

func (a *App) contractMenu(ctx context.Context) {
	a.println("")
	a.println("Contracts")
	a.println("1. List all")
	a.println("2. List pending (unsigned or not fully paid)")
	a.println("3. Create")
	a.println("4. Update")
	a.println("5. Back")

	switch a.prompt("Choice") {
	case "1":
		a.listContracts(ctx, ports.ContractFilter{})
	case "2":
		a.listContracts(ctx, ports.ContractFilter{Pending: true})
	case "3":
		a.createContract(ctx)
	case "4":
		a.updateContract(ctx)
	}
}

func (a *App) listContracts(ctx context.Context, filter ports.ContractFilter) {
	contracts, err := a.contracts.List(ctx, a.sess, filter)
	if err != nil {
		a.showError(err)
		return
	}
	a.showContracts(contracts)
}

func (a *App) createContract(ctx context.Context) {
	total, err := a.promptFloat("Total price")
	if err != nil {
		a.showInputError(err)
		return
	}
	rest, err := a.promptFloat("Rest to pay")
	if err != nil {
		a.showInputError(err)
		return
	}
	clientID, err := a.promptInt64("Client id")
	if err != nil {
		a.showInputError(err)
		return
	}
	commercialID, err := a.promptInt64("Commercial contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	signed, err := a.promptBool("Signed")
	if err != nil {
		a.showInputError(err)
		return
	}
	contract, err := a.contracts.Create(ctx, a.sess, ports.CreateContractInput{
		TotalPrice:          total,
		RestToPay:           rest,
		ClientID:            clientID,
		CommercialContactID: commercialID,
		Signed:              signed,
	})
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Contract %d created.\n", contract.ID)
}

func (a *App) updateContract(ctx context.Context) {
	id, err := a.promptInt64("Contract id")
	if err != nil {
		a.showInputError(err)
		return
	}
	total, err := a.promptOptFloat("Total price")
	if err != nil {
		a.showInputError(err)
		return
	}
	rest, err := a.promptOptFloat("Rest to pay")
	if err != nil {
		a.showInputError(err)
		return
	}
	clientID, err := a.promptOptInt64("Client id")
	if err != nil {
		a.showInputError(err)
		return
	}
	commercialID, err := a.promptOptInt64("Commercial contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	signed, err := a.promptOptBool("Signed")
	if err != nil {
		a.showInputError(err)
		return
	}
	contract, err := a.contracts.Update(ctx, a.sess, id, ports.UpdateContractInput{
		TotalPrice:          total,
		RestToPay:           rest,
		ClientID:            clientID,
		CommercialContactID: commercialID,
		Signed:              signed,
	})
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Contract %d updated.\n", contract.ID)
}

func (a *App) eventMenu(ctx context.Context) {
	a.println("")
	a.println("Events")
	a.println("1. List all")
	a.println("2. List mine (support)")
	a.println("3. List unassigned (management)")
	a.println("4. Create")
	a.println("5. Update")
	a.println("6. Assign support contact")
	a.println("7. Back")

	switch a.prompt("Choice") {
	case "1":
		events, err := a.events.List(ctx, a.sess)
		if err != nil {
			a.showError(err)
			return
		}
		a.showEvents(events)
	case "2":
		events, err := a.events.ListMine(ctx, a.sess)
		if err != nil {
			a.showError(err)
			return
		}
		a.showEvents(events)
	case "3":
		events, err := a.events.ListUnassigned(ctx, a.sess)
		if err != nil {
			a.showError(err)
			return
		}
		a.showEvents(events)
	case "4":
		a.createEvent(ctx)
	case "5":
		a.updateEvent(ctx)
	case "6":
		a.assignSupport(ctx)
	}
}

func (a *App) createEvent(ctx context.Context) {
	name := a.prompt("Name")
	clientID, err := a.promptInt64("Client id")
	if err != nil {
		a.showInputError(err)
		return
	}
	start, err := a.promptTime("Start")
	if err != nil {
		a.showInputError(err)
		return
	}
	end, err := a.promptTime("End")
	if err != nil {
		a.showInputError(err)
		return
	}
	attendees, err := a.promptInt("Attendees")
	if err != nil {
		a.showInputError(err)
		return
	}
	support, err := a.promptOptInt64Create("Support contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	event, err := a.events.Create(ctx, a.sess, ports.CreateEventInput{
		Name:             name,
		Notes:            a.promptOptStringCreate("Notes"),
		Location:         a.promptOptStringCreate("Location"),
		StartDatetime:    start,
		EndDatetime:      end,
		Attendees:        attendees,
		ClientID:         clientID,
		SupportContactID: support,
	})
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Event %d created.\n", event.ID)
}

func (a *App) updateEvent(ctx context.Context) {
	id, err := a.promptInt64("Event id")
	if err != nil {
		a.showInputError(err)
		return
	}
	name := a.prompt("Name (blank = keep)")
	start, err := a.promptOptTime("Start")
	if err != nil {
		a.showInputError(err)
		return
	}
	end, err := a.promptOptTime("End")
	if err != nil {
		a.showInputError(err)
		return
	}
	attendees, err := a.promptOptInt("Attendees")
	if err != nil {
		a.showInputError(err)
		return
	}
	clientID, err := a.promptOptInt64("Client id")
	if err != nil {
		a.showInputError(err)
		return
	}
	support, err := a.promptOptInt64("Support contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	event, err := a.events.Update(ctx, a.sess, id, ports.UpdateEventInput{
		Name:             name,
		Notes:            a.promptOptString("Notes"),
		Location:         a.promptOptString("Location"),
		StartDatetime:    start,
		EndDatetime:      end,
		Attendees:        attendees,
		ClientID:         clientID,
		SupportContactID: support,
	})
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Event %d updated.\n", event.ID)
}

func (a *App) assignSupport(ctx context.Context) {
	eventID, err := a.promptInt64("Event id")
	if err != nil {
		a.showInputError(err)
		return
	}
	supportID, err := a.promptInt64("Support contact id")
	if err != nil {
		a.showInputError(err)
		return
	}
	event, err := a.events.AssignSupport(ctx, a.sess, eventID, supportID)
	if err != nil {
		a.showError(err)
		return
	}
	fmt.Fprintf(a.out, "Event %d assigned to user %d.\n", event.ID, supportID)
}
