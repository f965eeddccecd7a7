package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"planline/internal/app"
	"planline/internal/domain"
	"planline/internal/engine"
	"planline/internal/repo"
)

func stakeholderCmd() *cobra.Command {
	stakeholderCmd := &cobra.Command{Use: "stakeholder", Short: "Manage stakeholders"}
	stakeholderCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stakeholders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				list := s.Data().Stakeholders
				rows := make([]table.Row, 0, len(list))
				for _, st := range list {
					rows = append(rows, table.Row{st.ID, st.Name, st.Role, st.Organization, st.Influence, st.Interest})
				}
				return printRows(list, table.Row{"ID", "Name", "Role", "Organization", "Influence", "Interest"}, rows)
			})
		},
	})

	var role, org, email, influence, interest, notes string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a stakeholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				st, err := ws.Engine.AddStakeholder(ctx, s, engine.StakeholderOptions{
					Name:         args[0],
					Role:         role,
					Organization: org,
					Email:        email,
					Influence:    domain.Level(influence),
					Interest:     domain.Level(interest),
					Notes:        notes,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	add.Flags().StringVar(&role, "role", "", "role")
	add.Flags().StringVar(&org, "organization", "", "organization")
	add.Flags().StringVar(&email, "email", "", "email")
	add.Flags().StringVar(&influence, "influence", "", "low|medium|high")
	add.Flags().StringVar(&interest, "interest", "", "low|medium|high")
	add.Flags().StringVar(&notes, "notes", "", "notes")
	stakeholderCmd.AddCommand(add)

	var upInfluence, upInterest, upRole string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a stakeholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				st, err := ws.Engine.UpdateStakeholder(ctx, s, engine.StakeholderUpdateOptions{
					ID:        args[0],
					Role:      changed(cmd, "role", upRole),
					Influence: changed(cmd, "influence", domain.Level(upInfluence)),
					Interest:  changed(cmd, "interest", domain.Level(upInterest)),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	update.Flags().StringVar(&upRole, "role", "", "role")
	update.Flags().StringVar(&upInfluence, "influence", "", "low|medium|high")
	update.Flags().StringVar(&upInterest, "interest", "", "low|medium|high")
	stakeholderCmd.AddCommand(update)
	stakeholderCmd.AddCommand(deleteCmd(domain.KindStakeholder))
	return stakeholderCmd
}

func requirementCmd() *cobra.Command {
	requirementCmd := &cobra.Command{Use: "requirement", Short: "Manage requirements"}
	requirementCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				list := s.Data().Requirements
				rows := make([]table.Row, 0, len(list))
				for _, r := range list {
					rows = append(rows, table.Row{r.ID, r.Title, r.Type, r.Priority, r.Status, strings.Join(r.LinkedTasks, ",")})
				}
				return printRows(list, table.Row{"ID", "Title", "Type", "Priority", "Status", "Tasks"}, rows)
			})
		},
	})

	var desc, kind, priority, status, source string
	var linked []string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a requirement (a description is required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.AddRequirement(ctx, s, engine.RequirementCreateOptions{
					Title:       args[0],
					Description: desc,
					Type:        domain.RequirementType(kind),
					Priority:    domain.RequirementPriority(priority),
					Status:      domain.RequirementStatus(status),
					Source:      source,
					LinkedTasks: linked,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	add.Flags().StringVar(&desc, "description", "", "description")
	add.Flags().StringVar(&kind, "type", "", "functional|non-functional|constraint|business")
	add.Flags().StringVar(&priority, "priority", "", "must|should|could|wont")
	add.Flags().StringVar(&status, "status", "", "draft|approved|implemented|verified")
	add.Flags().StringVar(&source, "source", "", "source")
	add.Flags().StringSliceVar(&linked, "task", nil, "linked task id (repeatable)")
	requirementCmd.AddCommand(add)

	var upStatus, upPriority string
	var upLinked []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.UpdateRequirement(ctx, s, engine.RequirementUpdateOptions{
					ID:          args[0],
					Status:      changed(cmd, "status", domain.RequirementStatus(upStatus)),
					Priority:    changed(cmd, "priority", domain.RequirementPriority(upPriority)),
					LinkedTasks: changed(cmd, "task", upLinked),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	update.Flags().StringVar(&upStatus, "status", "", "status")
	update.Flags().StringVar(&upPriority, "priority", "", "priority")
	update.Flags().StringSliceVar(&upLinked, "task", nil, "replace linked task ids (repeatable)")
	requirementCmd.AddCommand(update)
	requirementCmd.AddCommand(deleteCmd(domain.KindRequirement))
	return requirementCmd
}

func teamCmd() *cobra.Command {
	teamCmd := &cobra.Command{Use: "team", Short: "Manage team members"}
	teamCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				list := s.Data().TeamMembers
				rows := make([]table.Row, 0, len(list))
				for _, m := range list {
					rows = append(rows, table.Row{m.ID, m.Name, m.Email, m.Role})
				}
				return printRows(list, table.Row{"ID", "Name", "Email", "Role"}, rows)
			})
		},
	})
	var email, role string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				m, err := ws.Engine.AddTeamMember(ctx, s, engine.TeamMemberOptions{Name: args[0], Email: email, Role: role})
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	add.Flags().StringVar(&email, "email", "", "email")
	add.Flags().StringVar(&role, "role", "", "role")
	teamCmd.AddCommand(add)
	teamCmd.AddCommand(deleteCmd(domain.KindTeamMember))
	return teamCmd
}

func sprintCmd() *cobra.Command {
	sprintCmd := &cobra.Command{Use: "sprint", Short: "Manage sprints and releases"}
	sprintCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				list := s.Data().Sprints
				rows := make([]table.Row, 0, len(list))
				for _, sp := range list {
					rows = append(rows, table.Row{sp.ID, sp.Name, sp.Status, sp.StartDate, sp.EndDate, len(sp.TaskIDs), len(sp.BacklogItemIDs)})
				}
				return printRows(list, table.Row{"ID", "Name", "Status", "Start", "End", "Tasks", "Backlog"}, rows)
			})
		},
	})

	var goal, start, end, status string
	var tasks, items []string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Plan a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				sp, err := ws.Engine.AddSprint(ctx, s, engine.SprintOptions{
					Name:           args[0],
					Goal:           goal,
					StartDate:      start,
					EndDate:        end,
					Status:         domain.SprintStatus(status),
					TaskIDs:        tasks,
					BacklogItemIDs: items,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(sp)
			})
		},
	}
	add.Flags().StringVar(&goal, "goal", "", "sprint goal")
	add.Flags().StringVar(&start, "start", "", "start date")
	add.Flags().StringVar(&end, "end", "", "end date")
	add.Flags().StringVar(&status, "status", "", "planned|active|completed")
	add.Flags().StringSliceVar(&tasks, "task", nil, "task id (repeatable)")
	add.Flags().StringSliceVar(&items, "item", nil, "backlog item id (repeatable)")
	sprintCmd.AddCommand(add)

	var upStatus string
	var upTasks, upItems []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				sp, err := ws.Engine.UpdateSprint(ctx, s, engine.SprintUpdateOptions{
					ID:             args[0],
					Status:         changed(cmd, "status", domain.SprintStatus(upStatus)),
					TaskIDs:        changed(cmd, "task", upTasks),
					BacklogItemIDs: changed(cmd, "item", upItems),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(sp)
			})
		},
	}
	update.Flags().StringVar(&upStatus, "status", "", "status")
	update.Flags().StringSliceVar(&upTasks, "task", nil, "replace task ids")
	update.Flags().StringSliceVar(&upItems, "item", nil, "replace backlog item ids")
	sprintCmd.AddCommand(update)
	sprintCmd.AddCommand(deleteCmd(domain.KindSprint))

	var version, date string
	var sprints []string
	release := &cobra.Command{
		Use:   "release <name>",
		Short: "Plan a release grouping sprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.AddRelease(ctx, s, engine.ReleaseOptions{
					Name:        args[0],
					Version:     version,
					ReleaseDate: date,
					SprintIDs:   sprints,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	release.Flags().StringVar(&version, "version", "", "version")
	release.Flags().StringVar(&date, "date", "", "release date")
	release.Flags().StringSliceVar(&sprints, "sprint", nil, "sprint id (repeatable)")
	sprintCmd.AddCommand(release)
	return sprintCmd
}

// deleteCmd builds the "delete <id>" subcommand for collections that only need Remove.
func deleteCmd(kind domain.EntityKind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s and every reference to it", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.Remove(ctx, s, kind, args[0])
			})
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <kind> <id>",
		Short: "Remove any entity by kind, cascading through its references",
		Long: "Kinds: phase, task, backlog, wbs, risk, stakeholder, requirement, raci, customRole, teamMember, sprint, release, ganttTask.\n" +
			"Removing an id that does not exist is a no-op.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.EntityKind(args[0])
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				if err := ws.Engine.Remove(ctx, s, kind, args[1]); err != nil {
					return err
				}
				if refs := engine.References(kind); len(refs) > 0 && !viper.GetBool("json") {
					fmt.Println("cleaned:", strings.Join(refs, ", "))
				}
				return nil
			})
		},
	}
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "Project lifecycle events: create, switch, duplicate, rename, delete and import.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var f repo.EventFilter
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				evts, err := ws.Projects.Repo.LatestEvents(ctx, n, f)
				if err != nil {
					return err
				}
				rows := make([]table.Row, 0, len(evts))
				for _, e := range evts {
					rows = append(rows, table.Row{e.ID, e.TS, e.Type, e.ProjectID, e.ActorID, e.Payload})
				}
				return printRows(evts, table.Row{"ID", "When", "Type", "Project", "Actor", "Payload"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.ProjectID, "project-id", "", "project id filter")
	cmd.Flags().Int64Var(&f.Cursor, "before", 0, "only events older than this id")
	return cmd
}

func ganttCmd() *cobra.Command {
	ganttCmd := &cobra.Command{Use: "gantt", Short: "Manage Gantt bars"}
	ganttCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List Gantt bars",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				list := s.Data().GanttTasks
				rows := make([]table.Row, 0, len(list))
				for _, g := range list {
					rows = append(rows, table.Row{g.ID, g.Name, g.Start, g.End, g.Progress, strings.Join(g.Dependencies, ","), g.TaskID})
				}
				return printRows(list, table.Row{"ID", "Name", "Start", "End", "%", "Depends on", "Task"}, rows)
			})
		},
	})
	var start, end, task string
	var progress int
	var deps []string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a Gantt bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				g, err := ws.Engine.AddGanttTask(ctx, s, engine.GanttOptions{
					Name:         args[0],
					Start:        start,
					End:          end,
					Progress:     progress,
					Dependencies: deps,
					TaskID:       task,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	add.Flags().StringVar(&start, "start", "", "start date")
	add.Flags().StringVar(&end, "end", "", "end date")
	add.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	add.Flags().StringSliceVar(&deps, "after", nil, "Gantt bar this one depends on (repeatable)")
	add.Flags().StringVar(&task, "task", "", "linked task id")
	ganttCmd.AddCommand(add)

	var upProgress int
	update := &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set the progress of a Gantt bar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Sscanf(args[1], "%d", &upProgress); err != nil {
				return fmt.Errorf("invalid percent %q", args[1])
			}
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				g, err := ws.Engine.UpdateGanttTask(ctx, s, engine.GanttUpdateOptions{ID: args[0], Progress: &upProgress})
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	ganttCmd.AddCommand(update)
	ganttCmd.AddCommand(deleteCmd(domain.KindGanttTask))
	return ganttCmd
}
