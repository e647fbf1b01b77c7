package cli

import (
	"rera-portal/internal/catalog"

	"github.com/spf13/cobra"
)

type pageSummary struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Group    string           `json:"group,omitempty"`
	Kind     catalog.PageKind `json:"kind"`
	Requires string           `json:"requires,omitempty"`
	Form     string           `json:"form,omitempty"`
	Sections []string         `json:"sections"`
}

func newPagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Portal pages",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pages in navigation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]pageSummary, 0, len(c.Pages))
			for _, p := range c.Pages {
				ps := pageSummary{
					ID:       p.ID,
					Title:    p.Title,
					Group:    p.Group,
					Kind:     p.Kind,
					Requires: p.Requires,
					Sections: append([]string{}, p.Sections...),
				}
				if p.Form != nil {
					ps.Form = p.Form.Name
				}
				out = append(out, ps)
			}
			return writeOut(cmd, app, out, nil)
		},
	})
	return cmd
}
