package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	docAuth "github.com/doccare/docAuth"
	"github.com/doccare/docAuth/appointment"
	"github.com/doccare/docAuth/directory"
	"github.com/doccare/docAuth/metrics/export/prometheus"
)

func (c *cli) doctorsCmd() *cobra.Command {
	var search, specialty string
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "List doctors, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			doctors := directory.Filter(directory.Catalog(), search, specialty)
			if c.jsonOutput {
				return c.printJSON(doctors)
			}
			if len(doctors) == 0 {
				fmt.Fprintln(c.stdout, "No doctors found.")
				return nil
			}
			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPECIALTY")
			for _, d := range doctors {
				fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Specialty)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&specialty, "specialty", directory.AllSpecialties, "specialty filter")
	return withRoute(cmd, "/doctors")
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := c.app.portal.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.signedIn(to)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return withRoute(cmd, docAuth.RouteLogin)
}

func (c *cli) signupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := c.app.portal.Signup(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return c.signedIn(to)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return withRoute(cmd, docAuth.RouteLogin)
}

func (c *cli) signedIn(to string) error {
	identity, _ := c.app.manager.Identity()
	if c.jsonOutput {
		return c.printJSON(map[string]any{"profile": identity.Profile, "navigate": to})
	}
	fmt.Fprintf(c.stdout, "signed in as %s <%s>\nnavigate: %s\n", identity.Name, identity.Email, to)
	return nil
}

func (c *cli) logoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := c.app.portal.Logout(cmd.Context())
			fmt.Fprintf(c.stdout, "signed out\nnavigate: %s\n", to)
			return nil
		},
	}
	return withRoute(cmd, docAuth.RouteHome)
}

func (c *cli) whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			identity, ok := c.app.manager.Identity()
			if c.jsonOutput {
				if !ok {
					return c.printJSON(map[string]any{"signedIn": false})
				}
				return c.printJSON(map[string]any{"signedIn": true, "profile": identity.Profile, "expiresAt": identity.ExpiresAt})
			}
			if !ok {
				fmt.Fprintln(c.stdout, "not signed in")
				return nil
			}
			role := "patient"
			if identity.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(c.stdout, "%s <%s> (%s)\n", identity.Name, identity.Email, role)
			return nil
		},
	}
	return withRoute(cmd, docAuth.RouteHome)
}

func (c *cli) bookCmd() *cobra.Command {
	var a appointment.Appointment
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := c.app.portal.Book(cmd.Context(), a)
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "appointment booked"
			}
			fmt.Fprintf(c.stdout, "%s: %s on %s at %s\n", msg, a.DoctorName, a.Date, a.Time)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.DoctorName, "doctor", "", "doctor name")
	cmd.Flags().StringVar(&a.PatientName, "patient", "", "patient name")
	cmd.Flags().StringVar(&a.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&a.Date, "date", "", "date, YYYY-MM-DD")
	cmd.Flags().StringVar(&a.Time, "time", "", "time, HH:MM")
	return withRoute(cmd, "/appointments")
}

func (c *cli) appointmentsCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "appointments",
		Short: "Manage your appointments",
	}

	list := withRoute(&cobra.Command{
		Use:   "list",
		Short: "List your appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appts, err := c.app.portal.MyAppointments(cmd.Context())
			if err != nil {
				return err
			}
			return c.printAppointments(appts)
		},
	}, "/my-appointments")

	var (
		id     string
		change appointment.Appointment
	)
	update := withRoute(&cobra.Command{
		Use:   "update",
		Short: "Change one of your appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			appts, err := c.app.portal.MyAppointments(ctx)
			if err != nil {
				return err
			}
			current, ok := findAppointment(appts, id)
			if !ok {
				return fmt.Errorf("appointment %q not found", id)
			}
			merged := mergeAppointment(current, change)
			if err := c.app.portal.UpdateAppointment(ctx, merged); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "appointment updated")
			return nil
		},
	}, "/my-appointments")
	update.Flags().StringVar(&id, "id", "", "appointment id")
	update.Flags().StringVar(&change.DoctorName, "doctor", "", "new doctor name")
	update.Flags().StringVar(&change.PatientName, "patient", "", "new patient name")
	update.Flags().StringVar(&change.Phone, "phone", "", "new phone number")
	update.Flags().StringVar(&change.Date, "date", "", "new date, YYYY-MM-DD")
	update.Flags().StringVar(&change.Time, "time", "", "new time, HH:MM")
	_ = update.MarkFlagRequired("id")

	var deleteID string
	del := withRoute(&cobra.Command{
		Use:   "delete",
		Short: "Delete one of your appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.portal.DeleteAppointment(cmd.Context(), deleteID); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "appointment deleted")
			return nil
		},
	}, "/my-appointments")
	del.Flags().StringVar(&deleteID, "id", "", "appointment id")
	_ = del.MarkFlagRequired("id")

	parent.AddCommand(list, update, del)
	return parent
}

func findAppointment(appts []appointment.Appointment, id string) (appointment.Appointment, bool) {
	for _, a := range appts {
		if a.ID == id {
			return a, true
		}
	}
	return appointment.Appointment{}, false
}

// mergeAppointment overlays the non-empty fields of change onto current.
func mergeAppointment(current, change appointment.Appointment) appointment.Appointment {
	if change.DoctorName != "" {
		current.DoctorName = change.DoctorName
	}
	if change.PatientName != "" {
		current.PatientName = change.PatientName
	}
	if change.Phone != "" {
		current.Phone = change.Phone
	}
	if change.Date != "" {
		current.Date = change.Date
	}
	if change.Time != "" {
		current.Time = change.Time
	}
	return current
}

func (c *cli) printAppointments(appts []appointment.Appointment) error {
	if c.jsonOutput {
		return c.printJSON(appts)
	}
	if len(appts) == 0 {
		fmt.Fprintln(c.stdout, "No appointments found.")
		return nil
	}
	w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOCTOR\tPATIENT\tPHONE\tDATE\tTIME")
	for _, a := range appts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.DoctorName, a.PatientName, a.Phone, a.Date, a.Time)
	}
	return w.Flush()
}

func (c *cli) adminCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "admin",
		Short: "Administrative views",
	}

	stats := withRoute(&cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals and appointments per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.portal.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(s)
			}
			fmt.Fprintf(c.stdout, "users: %d\nappointments: %d\nupcoming: %d\n", s.TotalUsers, s.TotalAppointments, s.Upcoming)
			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCOUNT")
			for _, d := range s.PerDay {
				fmt.Fprintf(w, "%s\t%d\n", d.Date, d.Count)
			}
			return w.Flush()
		},
	}, docAuth.RouteAdmin)

	users := withRoute(&cobra.Command{
		Use:   "users",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.portal.Users(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(list)
			}
			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
			for _, u := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.IsAdmin)
			}
			return w.Flush()
		},
	}, "/admin/users")

	appts := withRoute(&cobra.Command{
		Use:   "appointments",
		Short: "List every appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.portal.AllAppointments(cmd.Context())
			if err != nil {
				return err
			}
			return c.printAppointments(list)
		},
	}, "/admin/appointments")

	parent.AddCommand(stats, users, appts)
	return parent
}

func (c *cli) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print this invocation's session metrics in Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			out := prometheus.NewExporter(c.app.manager).Render()
			if out == "" {
				return errors.New("metrics disabled")
			}
			_, err := fmt.Fprint(c.stdout, out)
			return err
		},
	}
}
