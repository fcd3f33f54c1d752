package cli

import (
	"context"
	"fmt"

	"github.com/tiadocs/tia/internal/services"
)

// Docs lists the documents of the active collection.
func (a *App) Docs(_ context.Context) error {
	c, err := a.store.Get(a.activeCol)
	if err != nil {
		return err
	}
	if len(c.Documents) == 0 {
		printlnFn("No documents. Use 'upload <path>' to add some.")
		return nil
	}
	for _, d := range c.Documents {
		flag := " "
		if a.deletes.InFlight(d.Name) {
			flag = "…"
		}
		fmt.Printf("%s %-40s %-10s %8s  %s\n", flag, d.Name, d.Type, d.SizeLabel, d.Status)
	}
	return nil
}

// Upload validates and submits the given paths as one batch, then prints
// the aggregate report.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errUsage
	}

	candidates := make([]services.FileCandidate, 0, len(paths))
	for _, p := range paths {
		c, err := services.CandidateFromPath(p)
		if err != nil {
			return err
		}
		candidates = append(candidates, c)
	}

	report, err := a.uploads.UploadBatch(ctx, a.userID(), a.activeCol, candidates)
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %d file(s).\n", report.Uploaded)
	if report.Skipped > 0 {
		fmt.Printf("%d file(s) were skipped.\n", report.Skipped)
	}
	for _, f := range report.Failures {
		fmt.Printf("failed: %s: %s\n", f.Name, f.Reason)
	}
	return nil
}

// Delete requests removal of the named documents as one batch.
func (a *App) Delete(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return errUsage
	}

	report, err := a.deletes.DeleteDocuments(ctx, a.userID(), a.activeCol, names)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d file(s).\n", report.Deleted)
	for _, f := range report.Failures {
		fmt.Printf("not deleted: %s: %s\n", f.Name, f.Reason)
	}
	return nil
}

// Sync refetches the backend listing for the active collection.
func (a *App) Sync(ctx context.Context) error {
	n, err := a.sync.Rehydrate(ctx, a.userID(), a.activeCol)
	if err != nil {
		return err
	}
	fmt.Printf("%d document(s) available.\n", n)
	return nil
}
