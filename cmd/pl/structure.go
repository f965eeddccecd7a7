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
	"planline/internal/rules"
)

func wbsCmd() *cobra.Command {
	wbsCmd := &cobra.Command{Use: "wbs", Short: "Manage the work breakdown structure"}

	wbsCmd.AddCommand(&cobra.Command{
		Use:   "tree",
		Short: "Show the WBS as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				nodes := s.Data().WBS
				if viper.GetBool("json") {
					return printJSON(nodes)
				}
				byID := make(map[string]domain.WBSNode, len(nodes))
				var roots []domain.WBSNode
				for _, n := range nodes {
					byID[n.ID] = n
					if n.ParentID == "" {
						roots = append(roots, n)
					}
				}
				seen := map[string]bool{}
				for i, r := range roots {
					printWBSTree(r, byID, seen, "", i == len(roots)-1)
				}
				return nil
			})
		},
	})

	var parent, code, desc string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a WBS node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				n, err := ws.Engine.AddWBSNode(ctx, s, engine.WBSCreateOptions{
					ParentID:    parent,
					Code:        code,
					Name:        args[0],
					Description: desc,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(n)
			})
		},
	}
	add.Flags().StringVar(&parent, "parent", "", "parent node id (default root)")
	add.Flags().StringVar(&code, "code", "", "code (default derived from position)")
	add.Flags().StringVar(&desc, "description", "", "description")
	wbsCmd.AddCommand(add)

	var upName, upCode, upDesc string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a WBS node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				n, err := ws.Engine.UpdateWBSNode(ctx, s, engine.WBSUpdateOptions{
					ID:          args[0],
					Code:        changed(cmd, "code", upCode),
					Name:        changed(cmd, "name", upName),
					Description: changed(cmd, "description", upDesc),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(n)
			})
		},
	}
	update.Flags().StringVar(&upName, "name", "", "name")
	update.Flags().StringVar(&upCode, "code", "", "code")
	update.Flags().StringVar(&upDesc, "description", "", "description")
	wbsCmd.AddCommand(update)

	var moveTo string
	var position int
	move := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a node under another parent (or to the root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.MoveWBSNode(ctx, s, args[0], moveTo, position)
			})
		},
	}
	move.Flags().StringVar(&moveTo, "parent", "", "new parent id (empty for root)")
	move.Flags().IntVar(&position, "position", 0, "1-based position among siblings (default last)")
	wbsCmd.AddCommand(move)

	var policy string
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node; children are reparented or removed per --policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteWBSNode(ctx, s, args[0], rules.WBSDeletePolicy(policy))
			})
		},
	}
	del.Flags().StringVar(&policy, "policy", "", "reparent|cascade (default from config)")
	wbsCmd.AddCommand(del)

	wbsCmd.AddCommand(&cobra.Command{
		Use:   "renumber",
		Short: "Regenerate every code from tree order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.RenumberWBS(ctx, s)
			})
		},
	})
	return wbsCmd
}

func printWBSTree(n domain.WBSNode, byID map[string]domain.WBSNode, seen map[string]bool, prefix string, last bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true
	connector := "├── "
	newPrefix := prefix + "│   "
	if last {
		connector = "└── "
		newPrefix = prefix + "    "
	}
	fmt.Printf("%s%s%s %s\n", prefix, connector, n.Code, n.Name)
	for i, c := range n.Children {
		if child, ok := byID[c]; ok {
			printWBSTree(child, byID, seen, newPrefix, i == len(n.Children)-1)
		}
	}
}

func riskCmd() *cobra.Command {
	riskCmd := &cobra.Command{Use: "risk", Short: "Manage the risk register"}

	riskCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List risks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				risks := s.Data().Risks
				rows := make([]table.Row, 0, len(risks))
				for _, r := range risks {
					rows = append(rows, table.Row{r.ID, r.Title, r.Probability, r.Impact, r.Score, r.Status, r.Owner})
				}
				return printRows(risks, table.Row{"ID", "Title", "Probability", "Impact", "Score", "Status", "Owner"}, rows)
			})
		},
	})

	var desc, prob, impact, response, owner, status string
	var linked []string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Register a risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.AddRisk(ctx, s, engine.RiskCreateOptions{
					Title:       args[0],
					Description: desc,
					Probability: domain.Probability(prob),
					Impact:      domain.Impact(impact),
					Response:    domain.RiskResponse(response),
					Owner:       owner,
					Status:      domain.RiskStatus(status),
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
	add.Flags().StringVar(&prob, "probability", "", "low|medium|high")
	add.Flags().StringVar(&impact, "impact", "", "low|medium|high|critical")
	add.Flags().StringVar(&response, "response", "", "avoid|mitigate|transfer|accept")
	add.Flags().StringVar(&owner, "owner", "", "owner")
	add.Flags().StringVar(&status, "status", "", "open|monitoring|mitigated|closed")
	add.Flags().StringSliceVar(&linked, "task", nil, "linked task id (repeatable)")
	riskCmd.AddCommand(add)

	var upTitle, upProb, upImpact, upResponse, upOwner, upStatus string
	var upLinked []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a risk; the score follows probability and impact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.UpdateRisk(ctx, s, engine.RiskUpdateOptions{
					ID:          args[0],
					Title:       changed(cmd, "title", upTitle),
					Probability: changed(cmd, "probability", domain.Probability(upProb)),
					Impact:      changed(cmd, "impact", domain.Impact(upImpact)),
					Response:    changed(cmd, "response", domain.RiskResponse(upResponse)),
					Owner:       changed(cmd, "owner", upOwner),
					Status:      changed(cmd, "status", domain.RiskStatus(upStatus)),
					LinkedTasks: changed(cmd, "task", upLinked),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	update.Flags().StringVar(&upTitle, "title", "", "title")
	update.Flags().StringVar(&upProb, "probability", "", "probability")
	update.Flags().StringVar(&upImpact, "impact", "", "impact")
	update.Flags().StringVar(&upResponse, "response", "", "response")
	update.Flags().StringVar(&upOwner, "owner", "", "owner")
	update.Flags().StringVar(&upStatus, "status", "", "status")
	update.Flags().StringSliceVar(&upLinked, "task", nil, "replace linked task ids (repeatable)")
	riskCmd.AddCommand(update)

	riskCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteRisk(ctx, s, args[0])
			})
		},
	})
	return riskCmd
}

func raciCmd() *cobra.Command {
	raciCmd := &cobra.Command{
		Use:   "raci",
		Short: "Manage the RACI matrix",
		Long:  "Roles are Responsible, Accountable, Consulted or Informed (R/A/C/I). An entity holds at most one Accountable role.",
	}

	var kind, entity string
	list := &cobra.Command{
		Use:   "list",
		Short: "List RACI entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				entries := s.Data().RACI
				if entity != "" {
					entries = engine.RACIFor(s.Data(), domain.EntityKind(kind), entity)
				}
				rows := make([]table.Row, 0, len(entries))
				for _, r := range entries {
					rows = append(rows, table.Row{r.ID, r.EntityType, r.EntityID, r.Role, r.Responsibility})
				}
				return printRows(entries, table.Row{"ID", "Entity", "Entity ID", "Role", "RACI"}, rows)
			})
		},
	}
	list.Flags().StringVar(&kind, "kind", string(domain.KindTask), "entity kind used with --entity")
	list.Flags().StringVar(&entity, "entity", "", "only entries for this entity id")
	raciCmd.AddCommand(list)

	raciCmd.AddCommand(&cobra.Command{
		Use:   "add <kind> <entity-id> <role> <R|A|C|I>",
		Short: "Assign a responsibility to a role for an entity",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, ok := domain.ParseResponsibility(args[3])
			if !ok {
				return fmt.Errorf("unknown responsibility %q", args[3])
			}
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.AddRACIEntry(ctx, s, engine.RACICreateOptions{
					EntityType:     domain.EntityKind(args[0]),
					EntityID:       args[1],
					Role:           args[2],
					Responsibility: resp,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	})

	var upRole, upResp string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the role or responsibility of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				r, err := ws.Engine.UpdateRACIEntry(ctx, s, engine.RACIUpdateOptions{
					ID:             args[0],
					Role:           changed(cmd, "role", upRole),
					Responsibility: changed(cmd, "responsibility", domain.Responsibility(upResp)),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	update.Flags().StringVar(&upRole, "role", "", "role")
	update.Flags().StringVar(&upResp, "responsibility", "", "R|A|C|I")
	raciCmd.AddCommand(update)

	raciCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a RACI entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteRACIEntry(ctx, s, args[0])
			})
		},
	})

	roleCmd := &cobra.Command{Use: "role", Short: "Manage custom roles"}
	roleCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				roles := s.Data().CustomRoles
				if viper.GetBool("json") {
					return printJSON(roles)
				}
				fmt.Println(strings.Join(roles, "\n"))
				return nil
			})
		},
	})
	roleCmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Register a custom role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.AddCustomRole(ctx, s, args[0])
			})
		},
	})
	roleCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a custom role and its RACI entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, ws *app.Workspace, s *engine.Session) error {
				return ws.Engine.DeleteCustomRole(ctx, s, args[0])
			})
		},
	})
	raciCmd.AddCommand(roleCmd)
	return raciCmd
}
