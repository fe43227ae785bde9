package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

const routeAnnotation = "route"

// cli holds per-invocation state shared by the command tree.
type cli struct {
	environ map[string]string
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time

	jsonOutput bool
	app        *app
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "doccare",
		Short: "DocCare doctor appointment client",
		Long: `doccare signs in to the DocCare API, books and manages appointments, and
shows the administrative dashboard.

Each command is a navigation target. The persisted session is restored before
every command and the route guard decides whether the command may run:
protected commands print "redirect: <route>" and exit 2 when it refuses.

Example usage:
  doccare login --email asha@example.com --password secret
  doccare doctors --specialty Dentist
  doccare appointments list
  doccare admin stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.prepare(cmd)
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		c.doctorsCmd(),
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.bookCmd(),
		c.appointmentsCmd(),
		c.adminCmd(),
		c.metricsCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) prepare(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.environ)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg, c.stderr, c.now)
	if err != nil {
		return err
	}
	c.app = a
	return a.admit(cmd.Annotations[routeAnnotation])
}

func (c *cli) close() error {
	err := c.app.close()
	c.app = nil
	return err
}

// run executes args and returns the process exit code.
func (c *cli) run(ctx context.Context, args []string) int {
	root := newRootCmd(c)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(c.stderr, err)
	}
	return exitCode(err)
}

func withRoute(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[routeAnnotation] = route
	return cmd
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
