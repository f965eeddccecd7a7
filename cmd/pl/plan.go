package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"planline/internal/app"
	"planline/internal/domain"
	"planline/internal/engine"
)

func phaseCmd() *cobra.Command {
	phaseCmd := &cobra.Command{Use: "phase", Short: "Manage phases"}

	phaseCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List phases in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				phases := engine.PhasesInOrder(s.Data())
				rows := make([]table.Row, 0, len(phases))
				for _, p := range phases {
					rows = append(rows, table.Row{p.Order, p.ID, p.Name, p.Type, p.IsCustom})
				}
				return printRows(phases, table.Row{"#", "ID", "Name", "Type", "Custom"}, rows)
			})
		},
	})

	var addType, addDesc string
	var position int
	var inputs, outputs, tools []string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				p, err := ws.Engine.AddPhase(ctx, s, engine.PhaseCreateOptions{
					Name:        args[0],
					Type:        domain.PhaseType(addType),
					Description: addDesc,
					Inputs:      inputs,
					Outputs:     outputs,
					Tools:       tools,
					Position:    position,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	add.Flags().StringVar(&addType, "type", "", "phase type (default custom)")
	add.Flags().StringVar(&addDesc, "description", "", "description")
	add.Flags().IntVar(&position, "position", 0, "1-based insert position (default last)")
	add.Flags().StringSliceVar(&inputs, "input", nil, "phase input (repeatable)")
	add.Flags().StringSliceVar(&outputs, "output", nil, "phase output (repeatable)")
	add.Flags().StringSliceVar(&tools, "tool", nil, "tool (repeatable)")
	phaseCmd.AddCommand(add)

	var upName, upType, upDesc string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				p, err := ws.Engine.UpdatePhase(ctx, s, engine.PhaseUpdateOptions{
					ID:          args[0],
					Name:        changed(cmd, "name", upName),
					Type:        changed(cmd, "type", domain.PhaseType(upType)),
					Description: changed(cmd, "description", upDesc),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	update.Flags().StringVar(&upName, "name", "", "name")
	update.Flags().StringVar(&upType, "type", "", "phase type")
	update.Flags().StringVar(&upDesc, "description", "", "description")
	phaseCmd.AddCommand(update)

	phaseCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a phase; tasks keep their phase id and read as unassigned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeletePhase(ctx, s, args[0])
			})
		},
	})

	phaseCmd.AddCommand(&cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the phase order; every phase id must be listed once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.ReorderPhases(ctx, s, args)
			})
		},
	})
	return phaseCmd
}

func taskCmd() *cobra.Command {
	taskCmd := &cobra.Command{Use: "task", Short: "Manage tasks"}
	taskCmd.AddCommand(taskListCmd())
	taskCmd.AddCommand(taskCreateCmd())
	taskCmd.AddCommand(taskUpdateCmd())
	taskCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and every reference to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteTask(ctx, s, args[0])
			})
		},
	})
	taskCmd.AddCommand(&cobra.Command{
		Use:   "history <id>",
		Short: "Show the change history of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				entries := engine.TaskHistory(s.Data(), args[0])
				rows := make([]table.Row, 0, len(entries))
				for _, h := range entries {
					rows = append(rows, table.Row{h.Timestamp, h.UserName, h.Action, h.Field, h.OldValue, h.NewValue, h.Comment})
				}
				return printRows(entries, table.Row{"When", "User", "Action", "Field", "Old", "New", "Comment"}, rows)
			})
		},
	})
	return taskCmd
}

func taskListCmd() *cobra.Command {
	var status, phase, assignee string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				d := s.Data()
				var tasks []domain.Task
				for _, t := range d.Tasks {
					if status != "" && string(t.Status) != status {
						continue
					}
					if phase != "" && t.PhaseID != phase {
						continue
					}
					if assignee != "" && t.Assignee != assignee {
						continue
					}
					tasks = append(tasks, t)
				}
				rows := make([]table.Row, 0, len(tasks))
				for _, t := range tasks {
					phaseName := "-"
					if p, ok := engine.PhaseOf(d, t); ok {
						phaseName = p.Name
					}
					rows = append(rows, table.Row{t.ID, t.Title, t.Status, t.Priority, phaseName, t.Assignee, strings.Join(t.Tags, ",")})
				}
				return printRows(tasks, table.Row{"ID", "Title", "Status", "Priority", "Phase", "Assignee", "Tags"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&phase, "phase", "", "filter by phase id")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assignee")
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var desc, status, priority, phase, assignee, start, due string
	var tags []string
	var points, estimate, actual float64
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				t, err := ws.Engine.CreateTask(ctx, s, engine.TaskCreateOptions{
					Title:          args[0],
					Description:    desc,
					Status:         domain.TaskStatus(status),
					Priority:       domain.Priority(priority),
					PhaseID:        phase,
					Assignee:       assignee,
					Tags:           tags,
					StartDate:      start,
					DueDate:        due,
					StoryPoints:    changed(cmd, "points", points),
					EstimatedHours: changed(cmd, "estimate", estimate),
					ActualHours:    changed(cmd, "actual", actual),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "backlog|todo|in-progress|review|done")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high|critical")
	cmd.Flags().StringVar(&phase, "phase", "", "phase id")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&points, "points", 0, "story points")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "estimated hours")
	cmd.Flags().Float64Var(&actual, "actual", 0, "actual hours")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, desc, status, priority, phase, assignee, start, due, comment string
	var tags []string
	var points, estimate, actual float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task; changes to tracked fields are recorded in its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				t, err := ws.Engine.UpdateTask(ctx, s, engine.TaskUpdateOptions{
					ID:             args[0],
					Title:          changed(cmd, "title", title),
					Description:    changed(cmd, "description", desc),
					Status:         changed(cmd, "status", domain.TaskStatus(status)),
					Priority:       changed(cmd, "priority", domain.Priority(priority)),
					PhaseID:        changed(cmd, "phase", phase),
					Assignee:       changed(cmd, "assignee", assignee),
					Tags:           changed(cmd, "tag", tags),
					StartDate:      changed(cmd, "start", start),
					DueDate:        changed(cmd, "due", due),
					StoryPoints:    changed(cmd, "points", points),
					EstimatedHours: changed(cmd, "estimate", estimate),
					ActualHours:    changed(cmd, "actual", actual),
					Comment:        comment,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "status")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().StringVar(&phase, "phase", "", "phase id (empty to unassign)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace tags (repeatable)")
	cmd.Flags().StringVar(&start, "start", "", "start date")
	cmd.Flags().StringVar(&due, "due", "", "due date")
	cmd.Flags().Float64Var(&points, "points", 0, "story points")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "estimated hours")
	cmd.Flags().Float64Var(&actual, "actual", 0, "actual hours")
	cmd.Flags().StringVar(&comment, "comment", "", "comment stored with the history entries")
	return cmd
}

func backlogCmd() *cobra.Command {
	backlogCmd := &cobra.Command{Use: "backlog", Short: "Manage the product backlog"}

	backlogCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backlog items in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				items := s.Data().Backlog
				rows := make([]table.Row, 0, len(items))
				for _, b := range items {
					rows = append(rows, table.Row{b.Order, b.ID, b.Title, b.Type, b.Status, b.Priority, b.StoryPoints})
				}
				return printRows(items, table.Row{"#", "ID", "Title", "Type", "Status", "Priority", "Points"}, rows)
			})
		},
	})

	var desc, priority, kind, status string
	var points int
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Append a backlog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				b, err := ws.Engine.AddBacklogItem(ctx, s, engine.BacklogCreateOptions{
					Title:       args[0],
					Description: desc,
					StoryPoints: points,
					Priority:    domain.Priority(priority),
					Type:        domain.BacklogType(kind),
					Status:      domain.BacklogStatus(status),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(b)
			})
		},
	}
	add.Flags().StringVar(&desc, "description", "", "description")
	add.Flags().StringVar(&priority, "priority", "", "low|medium|high|critical")
	add.Flags().StringVar(&kind, "type", "", "feature|bug|technical|spike")
	add.Flags().StringVar(&status, "status", "", "status")
	add.Flags().IntVar(&points, "points", 0, "story points (positive)")
	_ = add.MarkFlagRequired("points")
	backlogCmd.AddCommand(add)

	var upTitle, upStatus, upPriority string
	var upPoints int
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a backlog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				b, err := ws.Engine.UpdateBacklogItem(ctx, s, engine.BacklogUpdateOptions{
					ID:          args[0],
					Title:       changed(cmd, "title", upTitle),
					Status:      changed(cmd, "status", domain.BacklogStatus(upStatus)),
					Priority:    changed(cmd, "priority", domain.Priority(upPriority)),
					StoryPoints: changed(cmd, "points", upPoints),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(b)
			})
		},
	}
	update.Flags().StringVar(&upTitle, "title", "", "title")
	update.Flags().StringVar(&upStatus, "status", "", "status")
	update.Flags().StringVar(&upPriority, "priority", "", "priority")
	update.Flags().IntVar(&upPoints, "points", 0, "story points")
	backlogCmd.AddCommand(update)

	backlogCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backlog item and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteBacklogItem(ctx, s, args[0])
			})
		},
	})
	backlogCmd.AddCommand(&cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the backlog order; every item id must be listed once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				if err := ws.Engine.ReorderBacklog(ctx, s, args); err != nil {
					return err
				}
				fmt.Println("reordered", len(args), "items")
				return nil
			})
		},
	})
	return backlogCmd
}
