package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var pending bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain or its pending transactions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pending {
			return call(cmd, http.MethodGet, "/transactions/pending", nil)
		}
		return call(cmd, http.MethodGet, "/chain", nil)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&pending, "pending", "p", false, "Show the pending transactions instead.")
}
