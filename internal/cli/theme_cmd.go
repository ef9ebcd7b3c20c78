package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/theme"
)

func newThemeCommand(deps *AppDeps) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:         "theme [NAME]",
		Short:       "Show or change the colour theme",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				if err := deps.Theme.Set(cmd.Context(), args[0]); err != nil {
					return err
				}
				printf(out, "Theme set to %s.\n", deps.Theme.Current())
				return nil
			}

			if list {
				current := deps.Theme.Current()
				for _, name := range theme.Available {
					marker := "  "
					if name == current {
						marker = "* "
					}
					printf(out, "%s%s\n", marker, name)
				}
				return nil
			}

			printf(out, "%s\n", deps.Theme.Current())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list every theme")
	cmd.SetHelpTemplate(cmd.HelpTemplate() + "\nThemes: " + strings.Join(theme.Available, ", ") + "\n")

	return cmd
}
