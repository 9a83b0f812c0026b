package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unismart/planner-api/internal/dto"
)

func newCoursesCmd(root *rootOptions) *cobra.Command {
	var (
		semester string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List catalog courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer env.Close()

			resp, _, err := env.catalog.ListCourses(cmd.Context(), dto.CourseListQuery{Semester: semester})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSEMESTER")
			for _, c := range resp.Courses {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Semester)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "Only list courses offered in this semester")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}
