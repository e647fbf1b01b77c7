package cli

import (
	"errors"
	"strings"

	"rera-portal/internal/publish"
	"rera-portal/internal/store"

	"github.com/spf13/cobra"
)

func newSubmissionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"subs"},
		Short:   "Saved page submissions",
	}

	var f store.Filter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := app.store().ListSubmissions(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, subs, nil)
		},
	}
	listCmd.Flags().StringVar(&f.Page, "page", "", "Only this page id")
	listCmd.Flags().StringVar(&f.Project, "project", "", "Only this project")
	listCmd.Flags().IntVar(&f.Limit, "limit", 0, "Maximum number of results (0 = all)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one submission with its form values and section records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := app.store().GetSubmission(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sub, sub.Form)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if err := app.store().DeleteSubmission(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": id}, nil)
		},
	}

	var toDir string
	var html bool
	var overwrite bool
	exportCmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a submission as Markdown (and HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(toDir) == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			sub, err := app.store().GetSubmission(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteSubmission(sub, toDir, publish.WriteOptions{
				Overwrite: overwrite,
				HTML:      html,
				Render:    publish.RenderOptions{Catalog: c},
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res, nil)
		},
	}
	exportCmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	_ = exportCmd.MarkFlagRequired("to")
	exportCmd.Flags().BoolVar(&html, "html", false, "Also write an HTML page")
	exportCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")

	cmd.AddCommand(listCmd, showCmd, deleteCmd, exportCmd)
	return cmd
}
