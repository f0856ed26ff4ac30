package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"glossa/internal/config"
	"glossa/internal/store"
)

func newContributorCommand(ctx *commandContext) *cobra.Command {
	contributorCmd := &cobra.Command{
		Use:   "contributor",
		Short: "Manage contributors",
	}

	contributorCmd.AddCommand(newContributorAddCommand(ctx))
	contributorCmd.AddCommand(newContributorListCommand(ctx))
	contributorCmd.AddCommand(newContributorRemoveCommand(ctx))

	return contributorCmd
}

func newContributorAddCommand(ctx *commandContext) *cobra.Command {
	var ageRange, gender, location string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a contributor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				created, err := st.CreateContributor(cmd.Context(), store.Contributor{
					Name:     args[0],
					AgeRange: ageRange,
					Gender:   gender,
					Location: location,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added contributor %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ageRange, "age-range", "", "Age range, e.g. 25-34")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender")
	cmd.Flags().StringVar(&location, "location", "", "Home village or town")
	return cmd
}

func newContributorListCommand(ctx *commandContext) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contributors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				contributors, err := st.ListContributors(cmd.Context(), strings.TrimSpace(query))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(contributors) == 0 {
					fmt.Fprintln(out, "No contributors found.")
					return nil
				}
				rows := make([][]string, 0, len(contributors))
				for _, c := range contributors {
					rows = append(rows, []string{c.ID, c.Name, c.AgeRange, c.Gender, c.Location})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Age range", "Gender", "Location"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name")
	return cmd
}

func newContributorRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <contributor-id>",
		Short: "Remove a contributor and their recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.DeleteContributor(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed contributor %s\n", args[0])
				return nil
			})
		},
	}
}
