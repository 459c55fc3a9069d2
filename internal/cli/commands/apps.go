package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/etlwatch/pkg/backend"
)

// NewAppsCommand creates the apps command and its create, update and delete subcommands.
func NewAppsCommand(g *GlobalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List and manage the apps tracked by the backend",
		Long: `List the apps tracked by the backend. The API tokens are never shown.

Use the create, update and delete subcommands to manage them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown output format %q (use text or json)", outputFormat)
			}

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			apps, err := newBackendClient(cfg).Apps(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(apps)
			}

			if len(apps) == 0 {
				fmt.Fprintln(out, "No apps configured")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAPP ID\tACTIVE\tSCHEDULE\tINTERVAL\t")
			for _, a := range apps {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%dm\t\n",
					a.ID, a.Name, a.AppID, a.IsActive, a.ScheduleTime, a.IntervalMinutes)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")

	cmd.AddCommand(newAppsCreateCommand(g))
	cmd.AddCommand(newAppsUpdateCommand(g))
	cmd.AddCommand(newAppsDeleteCommand(g))

	return cmd
}

// appFlags are the editable fields of an app.
type appFlags struct {
	Name     string
	AppID    string
	Token    string
	Active   bool
	Schedule string
	Interval int
}

func (f *appFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.AppID, "app-id", "", "Analytics app id")
	cmd.Flags().StringVar(&f.Token, "token", "", "API token used to pull the app's events")
	cmd.Flags().BoolVar(&f.Active, "active", true, "Include the app in scheduled runs")
	cmd.Flags().StringVar(&f.Schedule, "schedule", "12:00", "Daily run time (HH:MM)")
	cmd.Flags().IntVar(&f.Interval, "interval", 60, "Minutes between scheduled runs")
}

// apply copies the flags the user set onto in.
func (f *appFlags) apply(cmd *cobra.Command, in *backend.AppInput) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.Name
	}
	if changed("app-id") {
		in.AppID = f.AppID
	}
	if changed("token") {
		in.APIToken = f.Token
	}
	if changed("active") {
		in.IsActive = f.Active
	}
	if changed("schedule") {
		in.ScheduleTime = f.Schedule
	}
	if changed("interval") {
		in.IntervalMinutes = f.Interval
	}
}

func newAppsCreateCommand(g *GlobalOptions) *cobra.Command {
	flags := &appFlags{}

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a new app",
		Example: `  etlwatch apps create --name Puzzle --app-id com.example.puzzle --token $TOKEN`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			in := backend.AppInput{
				Name:            flags.Name,
				AppID:           flags.AppID,
				APIToken:        flags.Token,
				IsActive:        flags.Active,
				ScheduleTime:    flags.Schedule,
				IntervalMinutes: flags.Interval,
			}

			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).CreateApp(ctx, in); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created app %s (%s)\n", in.Name, in.AppID)
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("app-id")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newAppsUpdateCommand(g *GlobalOptions) *cobra.Command {
	flags := &appFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an app",
		Long: `Change the fields given as flags and keep the others. The backend never
returns tokens and replaces every field on update, so --token is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())

			id, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			client := newBackendClient(cfg)

			apps, err := client.Apps(ctx)
			if err != nil {
				return err
			}
			var current *backend.App
			for i := range apps {
				if apps[i].ID == id {
					current = &apps[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("app #%d not found", id)
			}

			in := backend.AppInput{
				Name:            current.Name,
				AppID:           current.AppID,
				IsActive:        current.IsActive,
				ScheduleTime:    current.ScheduleTime,
				IntervalMinutes: current.IntervalMinutes,
			}
			flags.apply(cmd, &in)

			if err := client.UpdateApp(ctx, id, in); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated app #%d\n", id)
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newAppsDeleteCommand(g *GlobalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an app with its events and job history",
		Long: `Delete an app. The backend also deletes every event and job history
entry of the app, so --yes is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "app id")
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete an app and its data without --yes")
			}

			ctx := commandContext(cmd.Context())
			cfg, err := g.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).DeleteApp(ctx, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted app #%d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting the app and its data")

	return cmd
}
