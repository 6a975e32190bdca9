package bmc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Account is one local-user slot on the controller. The slot id is the
// stable identity; a disabled slot with an empty name is free.
type Account struct {
	ID      int    `json:"id"`
	Enabled bool   `json:"enabled"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

// Roles the controller accepts for local accounts.
var Roles = []string{"Administrator", "Operator", "ReadOnly", "None"}

// accountDescription is the marker every member of the account collection
// must carry; any other description means we are looking at a resource
// this engine does not know how to manage.
const accountDescription = "User Account"

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ListAccounts enumerates the controller's local-account collection with a
// single expanded query. Order is whatever the controller returns; do not
// assume it is sorted by slot.
func (c *Controller) ListAccounts() ([]Account, error) {
	body, err := c.Query(accountsPath + "?$expand=*($levels=1)")
	if err != nil {
		return nil, err
	}
	var collection struct {
		Members []struct {
			ID          string `json:"Id"`
			Description string `json:"Description"`
			Enabled     bool   `json:"Enabled"`
			UserName    string `json:"UserName"`
			RoleID      string `json:"RoleId"`
		} `json:"Members"`
	}
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse account collection: %v", err)
	}
	accounts := make([]Account, 0, len(collection.Members))
	for _, m := range collection.Members {
		if m.Description != "" && m.Description != accountDescription {
			return nil, fmt.Errorf("%w: %q in slot %s", ErrUnexpectedAccountType, m.Description, m.ID)
		}
		id, err := strconv.Atoi(m.ID)
		if err != nil {
			return nil, fmt.Errorf("non-numeric account slot id %q", m.ID)
		}
		accounts = append(accounts, Account{
			ID:      id,
			Enabled: m.Enabled,
			Name:    m.UserName,
			Role:    m.RoleID,
		})
	}
	return accounts, nil
}

// FindFreeSlot returns the first slot eligible for a new account. Slots 0
// and 1 are reserved by the controller and never eligible, even when they
// look free.
func (c *Controller) FindFreeSlot() (int, error) {
	accounts, err := c.ListAccounts()
	if err != nil {
		return 0, err
	}
	for _, a := range accounts {
		if a.ID > 1 && !a.Enabled && a.Name == "" {
			return a.ID, nil
		}
	}
	return 0, ErrNoFreeSlot
}

// CreateAccount enables the given slot with a name, password, and role.
// Creating a name that already exists is a no-op success so repeated runs
// over the same controller list stay idempotent; domain violations (bad
// role, missing or occupied slot) are errors.
func (c *Controller) CreateAccount(slot int, name, password, role string) (CommandReply, error) {
	if !validRole(role) {
		return CommandReply{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	accounts, err := c.ListAccounts()
	if err != nil {
		return CommandReply{}, err
	}
	for _, a := range accounts {
		if a.Name == name {
			log.Warn().Str("controller", c.Name).Msgf("account %s already exists", name)
			return CommandReply{Succeeded: true, Message: fmt.Sprintf("account %s already exists", name)}, nil
		}
	}
	var target *Account
	for i := range accounts {
		if accounts[i].ID == slot {
			target = &accounts[i]
			break
		}
	}
	if target == nil {
		return CommandReply{}, fmt.Errorf("%w: slot %d", ErrSlotNotFound, slot)
	}
	if target.Enabled || target.Name != "" {
		return CommandReply{}, fmt.Errorf("%w: slot %d", ErrSlotInUse, slot)
	}
	return c.patchAccount(slot, map[string]any{
		"UserName": name,
		"Password": password,
		"RoleId":   role,
		"Enabled":  true,
	}, fmt.Sprintf("Created account %s in slot %d", name, slot))
}

// SetPassword replaces the password of the account with the given name.
// A missing account is reported through the reply, not raised, matching
// the rest of the command surface.
func (c *Controller) SetPassword(name, password string) (CommandReply, error) {
	accounts, err := c.ListAccounts()
	if err != nil {
		return CommandReply{}, err
	}
	for _, a := range accounts {
		if a.Name == name {
			return c.patchAccount(a.ID, map[string]any{"Password": password},
				fmt.Sprintf("Password set for %s", name))
		}
	}
	log.Warn().Str("controller", c.Name).Msgf("no account named %s", name)
	return CommandReply{Message: fmt.Sprintf("no account named %s", name)}, nil
}

func (c *Controller) patchAccount(slot int, payload map[string]any, good string) (CommandReply, error) {
	res, err := c.client.Patch(fmt.Sprintf("%s/%d", accountsPath, slot), payload)
	if err != nil {
		return CommandReply{}, err
	}
	return c.readReply(res, 200, good), nil
}
