package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/task-manager/client"
	domain "github.com/example/task-manager/domain/task"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:4000"

type rootOptions struct {
	apiURL  string
	timeout time.Duration
}

func (o *rootOptions) api() *client.Client {
	return client.New(o.apiURL, client.WithTimeout(o.timeout))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage tasks through the tasks API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("TASKS_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "Base URL of the tasks API (env TASKS_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "Request timeout")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newUpdateCmd(opts))
	root.AddCommand(newRemoveCmd(opts))
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var status, sortBy, order string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List active tasks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var storeOpts []client.StoreOption
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				storeOpts = append(storeOpts, client.WithFilter(s))
			}

			by := domain.SortBy(sortBy)
			if !by.Valid() {
				return fmt.Errorf("--sort-by must be one of createdAt, status")
			}
			dir := domain.SortOrder(order)
			if !dir.Valid() {
				return fmt.Errorf("--order must be one of asc, desc")
			}
			storeOpts = append(storeOpts, client.WithSorting(by, dir))

			store := client.NewStore(opts.api(), storeOpts...)
			if err := store.Load(cmd.Context()); err != nil {
				return storeError(store, err)
			}

			tasks := store.Snapshot().Tasks
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			renderTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status ("+statusChoices()+")")
	cmd.Flags().StringVar(&sortBy, "sort-by", string(domain.SortByCreatedAt), "Sort by createdAt or status")
	cmd.Flags().StringVar(&order, "order", string(domain.SortDesc), "Sort order (asc or desc)")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var description, status string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.NewTask{Title: args[0], Description: description}
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				in.Status = s
			}

			store := client.NewStore(opts.api())
			created, err := store.Add(cmd.Context(), in)
			if err != nil {
				return storeError(store, err)
			}
			renderTasks(cmd.OutOrStdout(), []client.Task{*created})
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Initial status (default TODO)")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var title, description, status string
	var clearDescription bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("description") && clearDescription {
				return errors.New("--description and --clear-description cannot be combined")
			}

			var u client.TaskUpdate
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			u.ClearDescription = clearDescription
			if flags.Changed("status") {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				u.Status = &s
			}
			if u.Title == nil && u.Description == nil && u.Status == nil && !u.ClearDescription {
				return errors.New("nothing to update")
			}

			store := client.NewStore(opts.api())
			updated, err := store.Update(cmd.Context(), id, u)
			if err != nil {
				return storeError(store, err)
			}
			renderTasks(cmd.OutOrStdout(), []client.Task{*updated})
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	cmd.Flags().StringVar(&status, "status", "", "New status ("+statusChoices()+")")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Short:   "Delete a task",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store := client.NewStore(opts.api())
			if err := store.Remove(cmd.Context(), id); err != nil {
				return storeError(store, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

// storeError reports the message the store recorded for a failed action.
func storeError(store *client.Store, err error) error {
	if msg := store.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return uint(id), nil
}

func parseStatus(raw string) (domain.Status, error) {
	s := domain.Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("status must be one of %s", statusChoices())
	}
	return s, nil
}

func statusChoices() string {
	names := make([]string, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
