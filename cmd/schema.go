package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the remote schema",
}

var schemaFieldsCmd = &cobra.Command{
	Use:   "fields <kind>",
	Short: "List the default and custom fields of an object kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		fields, err := a.feature.Service().Fields(ctx, args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tTYPE\tSOURCE\tREQUIRED\tTARGET")
		for _, f := range fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", f.ID, f.Label, f.Type, f.Source, f.Required, f.ReferenceTarget)
		}
		return w.Flush()
	},
}

func init() {
	schemaCmd.AddCommand(schemaFieldsCmd)
	RootCmd.AddCommand(schemaCmd)
}
