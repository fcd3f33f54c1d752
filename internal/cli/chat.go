package cli

import (
	"context"
	"fmt"

	"github.com/tiadocs/tia/internal/events"
	"github.com/tiadocs/tia/internal/models"
)

// Ask sends a question and prints the assistant's answer with citations.
// On backend failure the error placeholder is already in the log; the error
// itself is surfaced by the REPL loop.
func (a *App) Ask(ctx context.Context, question string) error {
	msg, err := a.chat.Ask(ctx, a.userID(), question)
	if err != nil {
		return err
	}

	printlnFn(msg.Content)
	for _, src := range msg.Sources {
		a.highlights.Publish(events.DocumentHighlighted{
			CollectionID: a.activeCol,
			Filename:     src.Filename,
			Page:         src.Page,
		})
	}
	return nil
}

// History prints the current chat log in insertion order.
func (a *App) History(_ context.Context) error {
	msgs := a.chat.Messages()
	if len(msgs) == 0 {
		printlnFn("No messages yet. Use 'ask <question>'.")
		return nil
	}
	for _, m := range msgs {
		role := "you"
		if m.Role == models.RoleAssistant {
			role = "tia"
		}
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), role, m.Content)
		for _, src := range m.Sources {
			if src.Page > 0 {
				fmt.Printf("      source: %s (p. %d)\n", src.Filename, src.Page)
			} else {
				fmt.Printf("      source: %s\n", src.Filename)
			}
		}
	}
	return nil
}

// NewChat clears the live log.
func (a *App) NewChat(_ context.Context) error {
	a.chat.Reset()
	printlnFn("Started a new chat.")
	return nil
}

// SaveSession snapshots the current log under a name.
func (a *App) SaveSession(ctx context.Context, name string) error {
	saved, err := a.chat.Save(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Saved as %q (%s).\n", saved.Name, saved.ID)
	return nil
}

// LoadSession replaces the live log with a saved snapshot.
func (a *App) LoadSession(ctx context.Context, id string) error {
	if id == "" {
		return errUsage
	}
	if err := a.chat.Load(ctx, id); err != nil {
		return err
	}
	return a.History(ctx)
}

// Sessions lists saved snapshots, newest first.
func (a *App) Sessions(ctx context.Context) error {
	saved, err := a.chat.ListSaved(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		printlnFn("No saved sessions.")
		return nil
	}
	for _, s := range saved {
		fmt.Printf("%s  %s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Name)
	}
	return nil
}

// RemoveSession deletes a saved snapshot.
func (a *App) RemoveSession(ctx context.Context, id string) error {
	if id == "" {
		return errUsage
	}
	return a.chat.DeleteSaved(ctx, id)
}
