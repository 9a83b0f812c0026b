package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/unismart/planner-api/internal/scheduler"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <request.json>...",
		Short: "Check request files against the schema and the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer env.Close()

			catalog, err := env.catalog.Current()
			if err != nil {
				return err
			}
			validate := validator.New()

			failed := 0
			for _, path := range args {
				if err := checkRequest(path, catalog, validate); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n  %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d request files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func checkRequest(path string, catalog *scheduler.Catalog, validate *validator.Validate) error {
	req, err := readRequest(path)
	if err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	instructors := make(map[string]string, len(req.Preferences.CoursePreferences))
	for _, p := range req.Preferences.CoursePreferences {
		instructors[p.CourseID] = p.PreferredInstructorID
	}
	if _, err := scheduler.ParsePreferences(
		req.Preferences.PreferredStartTime,
		req.Preferences.PreferredEndTime,
		req.Preferences.DayOffRequested,
		instructors,
	); err != nil {
		return err
	}
	_, err = catalog.Resolve(req.SelectedCourseIDs)
	return err
}
