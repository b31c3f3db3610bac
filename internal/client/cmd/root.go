package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version, buildDate string) *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:   "autologg",
		Short: "AutoLogg maintenance log CLI",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newAddCmd(&serverURL))
	root.AddCommand(newListCmd(&serverURL))
	root.AddCommand(newDeleteCmd(&serverURL))
	root.AddCommand(newDevTokenCmd())
	return root
}
