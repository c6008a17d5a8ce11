package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/kuriosity/internal/ksptime"
	"github.com/viant/kuriosity/policy"
	"github.com/viant/kuriosity/service/catalog"
)

func newCatalogCmd() *cobra.Command {
	ret := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect experiment definitions",
	}
	ret.AddCommand(newCatalogListCmd())
	return ret
}

func newCatalogListCmd() *cobra.Command {
	var (
		URL   string
		allow []string
		block []string
	)
	ret := &cobra.Command{
		Use:   "list",
		Short: "List the valid experiments found at the catalog URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := catalog.NewLoader(catalog.WithPolicy(policy.FromConfig(&policy.Config{AllowList: allow, BlockList: block})))
			c, err := loader.Load(cmd.Context(), URL)
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), c)
		},
	}
	flags := ret.Flags()
	flags.StringVar(&URL, "catalog", "", "experiment catalog URL, file or folder")
	flags.StringSliceVar(&allow, "allow", nil, "experiment ID patterns to keep")
	flags.StringSliceVar(&block, "block", nil, "experiment ID patterns to drop")
	_ = ret.MarkFlagRequired("catalog")
	return ret
}

func writeCatalog(out io.Writer, c *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEAN TIME\tREPORTS\tRERUNNABLE")
	for _, id := range c.IDs() {
		exp, _ := c.Lookup(id)
		reports := "-"
		if exp.Science != nil && exp.Science.Type != "" {
			reports = string(exp.Science.Type)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", exp.ID, exp.DisplayName(), ksptime.Format(exp.MeanTimeToHappen), reports, exp.Rerunnable)
	}
	return w.Flush()
}
