package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"planline/internal/app"
	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "pl",
	Short: "Planline CLI",
	Long: `Planline keeps project plans consistent across phases, tasks, backlog, WBS, risks and RACI.
Core concepts:
- Workspace: a .planline directory holding the database; planline.yml next to it holds settings.
- Project: one plan with its own phases, tasks, backlog, WBS, risks, stakeholders, requirements and RACI matrix.
- Current project: the one commands act on unless --project is given; change it with 'pl project switch'.
- Modes: waterfall, agile or hybrid; 'pl project create --seed' fills the mode's standard phases.
- RACI: each entity has at most one Accountable role; a second one is rejected.
- WBS: deleting a node reparents its children (or cascades, see wbs.delete_policy).
- Task history: status, priority, assignee and tag changes are recorded; view with 'pl task history'.
- Event log: project lifecycle changes, view with 'pl log tail'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := db.EnsureWorkspace(viper.GetString("workspace"))
		return err
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PLANLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor", "", "acting user (overrides config actor)")
	rootCmd.PersistentFlags().String("project", "", "project id (overrides the current project)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at the configured level instead of warnings only")
	for _, name := range []string{"workspace", "json", "actor", "project", "verbose"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(phaseCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(backlogCmd())
	rootCmd.AddCommand(wbsCmd())
	rootCmd.AddCommand(riskCmd())
	rootCmd.AddCommand(raciCmd())
	rootCmd.AddCommand(stakeholderCmd())
	rootCmd.AddCommand(requirementCmd())
	rootCmd.AddCommand(teamCmd())
	rootCmd.AddCommand(sprintCmd())
	rootCmd.AddCommand(ganttCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create planline.yml and the workspace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return withWorkspace(cmd.Context(), func(ctx context.Context, ws *app.Workspace) error {
				return printJSONOrTable(map[string]string{"config": path, "database": db.Path(ws.Dir)})
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Workspace configuration"}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(c)
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate planline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(viper.GetString("workspace"))
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	})
	return cfg
}

// --- helpers ---

// workspaceOptions logs warnings to stderr; --verbose switches to the configured level.
func workspaceOptions() app.Options {
	opts := app.Options{
		Workspace: viper.GetString("workspace"),
		Actor:     viper.GetString("actor"),
		LogOut:    os.Stderr,
		LogLevel:  "warn",
	}
	if viper.GetBool("verbose") {
		opts.LogLevel = ""
	}
	return opts
}

func withWorkspace(ctx context.Context, fn func(context.Context, *app.Workspace) error) error {
	ws, err := app.Open(ctx, workspaceOptions())
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ctx, ws)
}

// withSession opens the resolved project; every mutation inside fn is saved as it commits.
func withSession(ctx context.Context, fn func(context.Context, *app.Workspace, *engine.Session) error) error {
	return withWorkspace(ctx, func(ctx context.Context, ws *app.Workspace) error {
		s, err := ws.Session(ctx, viper.GetString("project"))
		if err != nil {
			return err
		}
		return fn(ctx, ws, s)
	})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRows renders a table, or the raw items as JSON with --json.
func printRows(items any, header table.Row, rows []table.Row) error {
	if viper.GetBool("json") {
		return printJSON(items)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.Render()
	return nil
}

// changed returns a pointer to v when the flag was set on the command line.
func changed[T any](cmd *cobra.Command, flag string, v T) *T {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &v
}
