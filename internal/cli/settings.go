package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Settings with no args prints the current preferences; with "key value" it
// updates one and flushes to storage immediately.
func (a *App) Settings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("font-size: %d\nlanguage:  %s\ntheme:     %s\nanalytics: %t\n",
			a.prefs.FontSize, a.prefs.Language, a.prefs.Theme, a.prefs.ShareAnalytics)
		return nil
	}
	if len(args) != 2 {
		return errUsage
	}

	key, value := args[0], args[1]
	switch key {
	case "font-size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("font-size must be a number: %w", err)
		}
		a.prefs.FontSize = n
	case "language":
		a.prefs.Language = value
	case "theme":
		a.prefs.Theme = value
	case "analytics":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("analytics must be true or false: %w", err)
		}
		a.prefs.ShareAnalytics = b
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	return a.settings.Save(ctx, a.prefs)
}
