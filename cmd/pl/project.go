package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"planline/internal/app"
	"planline/internal/domain"
	"planline/internal/projects"
	"planline/internal/rules"
)

func projectCmd() *cobra.Command {
	projectCmd := &cobra.Command{Use: "project", Short: "Manage projects"}
	projectCmd.AddCommand(projectListCmd())
	projectCmd.AddCommand(projectCreateCmd())
	projectCmd.AddCommand(projectShowCmd())
	projectCmd.AddCommand(projectSwitchCmd())
	projectCmd.AddCommand(projectDuplicateCmd())
	projectCmd.AddCommand(projectRenameCmd())
	projectCmd.AddCommand(projectDeleteCmd())
	projectCmd.AddCommand(projectExportCmd())
	projectCmd.AddCommand(projectImportCmd())
	projectCmd.AddCommand(projectCheckCmd())
	return projectCmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				list, err := ws.Projects.ListProjects(ctx)
				if err != nil {
					return err
				}
				current, _ := ws.Projects.CurrentID(ctx)
				rows := make([]table.Row, 0, len(list))
				for _, p := range list {
					mark := ""
					if p.ID == current {
						mark = "*"
					}
					rows = append(rows, table.Row{mark, p.ID, p.Name, p.Mode, p.UpdatedAt})
				}
				return printRows(list, table.Row{"", "ID", "Name", "Mode", "Updated"}, rows)
			})
		},
	}
}

func projectCreateCmd() *cobra.Command {
	var desc, mode string
	var seed bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.Projects.CreateProject(ctx, projects.CreateOptions{
					Name:        args[0],
					Description: desc,
					Mode:        domain.ProjectMode(mode),
					Seed:        seed,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(p.Summary())
			})
		},
	}
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeWaterfall), "waterfall|agile|hybrid")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed the standard phases of the mode")
	return cmd
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project with collection sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				override := viper.GetString("project")
				if len(args) == 1 {
					override = args[0]
				}
				p, err := ws.ResolveProject(ctx, override)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(p)
				}
				d := p.Data
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendRows([]table.Row{
					{"ID", p.ID},
					{"Name", p.Name},
					{"Mode", p.Mode},
					{"Created", p.CreatedAt},
					{"Updated", p.UpdatedAt},
					{"Phases", len(d.Phases)},
					{"Tasks", len(d.Tasks)},
					{"Backlog", len(d.Backlog)},
					{"WBS nodes", len(d.WBS)},
					{"Risks", len(d.Risks)},
					{"Stakeholders", len(d.Stakeholders)},
					{"Requirements", len(d.Requirements)},
					{"RACI entries", len(d.RACI)},
					{"Team", len(d.TeamMembers)},
					{"Sprints", len(d.Sprints)},
					{"Releases", len(d.Releases)},
				})
				tw.Render()
				return nil
			})
		},
	}
}

func projectSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <id>",
		Short: "Make a project current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.Projects.SwitchProject(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p.Summary())
			})
		},
	}
}

func projectDuplicateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a project under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.Projects.DuplicateProject(ctx, args[0], name)
				if err != nil {
					return err
				}
				return printJSONOrTable(p.Summary())
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the copy (default \"<name> (copy)\")")
	return cmd
}

func projectRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.Projects.RenameProject(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSONOrTable(p.Summary())
			})
		},
	}
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				if err := ws.Projects.DeleteProject(ctx, args[0]); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
}

func projectExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a project document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				override := viper.GetString("project")
				if len(args) == 1 {
					override = args[0]
				}
				p, err := ws.ResolveProject(ctx, override)
				if err != nil {
					return err
				}
				doc, err := ws.Projects.ExportProject(ctx, p.ID)
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = os.Stdout.Write(append(doc, '\n'))
					return err
				}
				return os.WriteFile(out, doc, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func projectImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a project document under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.Projects.ImportProject(ctx, raw)
				if err != nil {
					return err
				}
				return printJSONOrTable(p.Summary())
			})
		},
	}
}

func projectCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report dangling references, WBS problems and RACI violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				p, err := ws.ResolveProject(ctx, viper.GetString("project"))
				if err != nil {
					return err
				}
				issues := rules.Audit(p.Data)
				violations := rules.FindViolations(p.Data.RACI)
				if viper.GetBool("json") {
					return printJSON(map[string]any{"issues": issues, "raci": violations})
				}
				if len(issues) == 0 && len(violations) == 0 {
					fmt.Println("no problems found")
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Entity", "ID", "Problem"})
				for _, is := range issues {
					tw.AppendRow(table.Row{is.Entity, is.ID, is.Problem})
				}
				for _, v := range violations {
					tw.AppendRow(table.Row{v.EntityType, v.EntityID, "multiple Accountable roles: " + strings.Join(v.ConflictingRoles, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
}
