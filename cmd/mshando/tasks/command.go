package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Create, browse and manage tasks",
	}

	cmd.AddCommand(
		listCmd(buildInfo),
		cmdutils.IDCommand("get <task-id>", "Show a task", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Task, error) {
				return svc.Tasks.Get(ctx, id)
			}),
		createCmd(buildInfo),
		updateCmd(buildInfo),
		cmdutils.IDCommand("delete <task-id>", "Delete a task", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (cmdutils.Done, error) {
				return cmdutils.Done{Message: fmt.Sprintf("task %d deleted", id)}, svc.Tasks.Delete(ctx, id)
			}),
		cmdutils.IDCommand("publish <task-id>", "Open a draft task for bidding", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Task, error) {
				return svc.Tasks.Publish(ctx, id)
			}),
		cmdutils.IDCommand("complete <task-id>", "Mark a task as completed", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Task, error) {
				return svc.Tasks.Complete(ctx, id)
			}),
		cmdutils.IDCommand("cancel <task-id>", "Cancel a task", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Task, error) {
				return svc.Tasks.Cancel(ctx, id)
			}),
		assignCmd(buildInfo),
		uploadPhotosCmd(buildInfo),
		imageCmd(buildInfo),
	)

	return cmd
}

func listCmd(buildInfo string) *cobra.Command {
	var (
		scope    string
		category int64
		status   string
		location string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks: your own, your assignments or a marketplace search",
		Args:  cobra.NoArgs,
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().StringVar(&scope, "scope", "mine", "mine, assigned or search")
	cmd.Flags().Int64Var(&category, "category", 0, "filter by category id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&location, "location", "", "filter by location")
	cmd.Flags().BoolVar(&remote, "remote", false, "only remote tasks")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params := marketplace.TaskSearchParams{
			Page: marketplace.Ptr(paging.Page),
			Size: marketplace.Ptr(paging.Size),
		}
		if cmd.Flags().Changed("category") {
			params.CategoryID = marketplace.Ptr(category)
		}
		if status != "" {
			params.Status = marketplace.Ptr(marketplace.TaskStatus(status))
		}
		if location != "" {
			params.Location = marketplace.Ptr(location)
		}
		if cmd.Flags().Changed("remote") {
			params.IsRemote = marketplace.Ptr(remote)
		}

		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Page[marketplace.Task], error) {
			switch scope {
			case "mine":
				return svc.Tasks.MyTasks(ctx, params)
			case "assigned":
				return svc.Tasks.MyAssignments(ctx, params)
			case "search":
				return svc.Tasks.Search(ctx, params)
			default:
				return marketplace.Page[marketplace.Task]{}, fmt.Errorf("unknown scope %q", scope)
			}
		})
	}

	return cmd
}

func createCmd(buildInfo string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task from a YAML or JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req marketplace.TaskRequest
			if err := cmdutils.ReadInput(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Task, error) {
				return svc.Tasks.Create(ctx, req)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "task document, - for standard input")

	return cmd
}

func updateCmd(buildInfo string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task from a YAML or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("task id", args[0])
			if err != nil {
				return err
			}

			var req marketplace.TaskRequest
			if err := cmdutils.ReadInput(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Task, error) {
				return svc.Tasks.Update(ctx, id, req)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "task document, - for standard input")

	return cmd
}

func assignCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <tasker-id>",
		Short: "Assign a task to a tasker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("task id", args[0])
			if err != nil {
				return err
			}
			taskerID, err := cmdutils.ParseID("tasker id", args[1])
			if err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Task, error) {
				return svc.Tasks.Assign(ctx, id, taskerID)
			})
		},
	}
}

func uploadPhotosCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-photos <task-id> <file>...",
		Short: "Attach photos to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("task id", args[0])
			if err != nil {
				return err
			}

			photos := make([]marketplace.Photo, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading photo: %w", err)
				}
				photos = append(photos, marketplace.Photo{FileName: filepath.Base(path), Data: data})
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Task, error) {
				return svc.Tasks.UploadPhotos(ctx, id, photos)
			})
		},
	}
}

func imageCmd(buildInfo string) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "image <task-id> <image-id>",
		Short: "Make an image the primary one, or remove it with --delete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("task id", args[0])
			if err != nil {
				return err
			}
			imageID, err := cmdutils.ParseID("image id", args[1])
			if err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (cmdutils.Done, error) {
				if remove {
					return cmdutils.Done{Message: "image deleted"}, svc.Tasks.DeleteImage(ctx, id, imageID)
				}

				return cmdutils.Done{Message: "primary image set"}, svc.Tasks.SetPrimaryImage(ctx, id, imageID)
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the image instead")

	return cmd
}
