package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"admission-workers/pkg/registry"
)

func newActivitiesCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Inspect and maintain the worker activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "path to registry file")

	validate := &cobra.Command{
		Use:   "validate [TASK_TYPE...]",
		Short: "Validate the registry, optionally against a list of known task types",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(args...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	var tag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List registered task types",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			for _, a := range reg.Activities {
				if tag != "" && !a.HasTag(tag) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-14s %-24s %s\n", a.TaskType, a.Category, a.Process, a.ImplementationStatus)
			}
			return nil
		},
	}
	list.Flags().StringVar(&tag, "tag", "", "only list activities carrying this tag")

	update := &cobra.Command{
		Use:   "update ID FIELD VALUE",
		Short: "Update a single field of an activity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(args[0], args[1], args[2], time.Now()); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}

	cmd.AddCommand(validate, list, update)
	return cmd
}
