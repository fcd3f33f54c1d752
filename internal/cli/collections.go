package cli

import (
	"context"
	"errors"
	"fmt"
)

var errUsage = errors.New("see 'help' for usage")

// Collections lists all collections with their document counts and sizes.
func (a *App) Collections(_ context.Context) error {
	for _, c := range a.store.Collections() {
		marker := " "
		if c.ID == a.activeCol {
			marker = "*"
		}
		fmt.Printf("%s %-24s %3d doc(s)  %s\n", marker, c.Name, c.DocumentCount, c.SizeLabel())
	}
	return nil
}

// NewCollection creates an empty collection and makes it active.
func (a *App) NewCollection(_ context.Context, name string) error {
	if name == "" {
		return errUsage
	}
	c, err := a.store.CreateCollection(name)
	if err != nil {
		return err
	}
	a.activeCol = c.ID
	fmt.Printf("Created collection %q.\n", c.Name)
	return nil
}

// RenameCollection renames a collection by its current name.
func (a *App) RenameCollection(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	c, err := a.store.FindByName(args[0])
	if err != nil {
		return err
	}
	if err := a.store.RenameCollection(c.ID, args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed %q to %q.\n", args[0], args[1])
	return nil
}

// DeleteCollection removes a collection and its documents from the local
// store in one step.
func (a *App) DeleteCollection(_ context.Context, name string) error {
	if name == "" {
		return errUsage
	}
	c, err := a.store.FindByName(name)
	if err != nil {
		return err
	}
	a.store.DeleteCollection(c.ID)
	if a.activeCol == c.ID {
		a.activeCol = a.firstCollectionID()
	}
	fmt.Printf("Deleted collection %q.\n", name)
	return nil
}

// UseCollection switches the active collection by name.
func (a *App) UseCollection(_ context.Context, name string) error {
	if name == "" {
		return errUsage
	}
	c, err := a.store.FindByName(name)
	if err != nil {
		return err
	}
	a.activeCol = c.ID
	return nil
}

func (a *App) firstCollectionID() string {
	cols := a.store.Collections()
	if len(cols) == 0 {
		c, err := a.store.CreateCollection(defaultCollectionName)
		if err != nil {
			return ""
		}
		return c.ID
	}
	return cols[0].ID
}
