package main

import (
	"fmt"
	"text/tabwriter"

	"charm.land/glamour/v2"
	"github.com/spf13/cobra"
)

var registrationsFlags struct {
	dataDir string
	show    string
}

var registrationsCmd = &cobra.Command{
	Use:     "registrations",
	Aliases: []string{"ls"},
	Short:   "List stored library registrations",
	RunE:    runRegistrations,
}

func init() {
	registrationsCmd.Flags().StringVar(&registrationsFlags.dataDir, "data-dir", "", "Data directory (overrides config)")
	registrationsCmd.Flags().StringVar(&registrationsFlags.show, "show", "", "Show one registration by id or slug")
}

func runRegistrations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if registrationsFlags.dataDir != "" {
		cfg.DataDir = registrationsFlags.dataDir
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()

	if registrationsFlags.show != "" {
		rec, err := store.FindRegistration(ctx, registrationsFlags.show)
		if err != nil {
			return err
		}
		rendered, err := glamour.Render(rec.Registration().Summary(), "dark")
		if err != nil {
			rendered = rec.Registration().Summary()
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	records, err := store.ListRegistrations(ctx)
	if err != nil {
		return fmt.Errorf("listing registrations: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No registrations yet. Run 'libreg register' to add one.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tLIBRARY\tUSERNAME\tREGISTERED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(r.ID), r.Slug, r.LibraryName(), r.Username(), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
