package portal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/doccare/docAuth/api"
	"github.com/doccare/docAuth/appointment"
)

// Book validates a and books it with the signed-in session's token.
// It returns the server's confirmation message.
func (p *Portal) Book(ctx context.Context, a appointment.Appointment) (string, error) {
	if err := a.Validate(p.now()); err != nil {
		return "", err
	}
	token, err := p.token()
	if err != nil {
		return "", err
	}
	msg, err := p.backend.CreateAppointment(ctx, token, a)
	if err != nil {
		return "", err
	}
	p.logger.InfoContext(ctx, "appointment booked", "doctor", a.DoctorName, "date", a.Date)
	return msg, nil
}

// MyAppointments lists the signed-in user's appointments.
func (p *Portal) MyAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	token, err := p.token()
	if err != nil {
		return nil, err
	}
	return p.backend.ListAppointments(ctx, token)
}

// UpdateAppointment replaces one of the signed-in user's appointments.
func (p *Portal) UpdateAppointment(ctx context.Context, a appointment.Appointment) error {
	token, err := p.token()
	if err != nil {
		return err
	}
	return p.backend.UpdateAppointment(ctx, token, a)
}

// DeleteAppointment removes one of the signed-in user's appointments.
func (p *Portal) DeleteAppointment(ctx context.Context, id string) error {
	token, err := p.token()
	if err != nil {
		return err
	}
	return p.backend.DeleteAppointment(ctx, token, id)
}

// Users lists every account.
func (p *Portal) Users(ctx context.Context) ([]api.User, error) {
	token, err := p.token()
	if err != nil {
		return nil, err
	}
	return p.backend.AdminUsers(ctx, token)
}

// AllAppointments lists every appointment.
func (p *Portal) AllAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	token, err := p.token()
	if err != nil {
		return nil, err
	}
	return p.backend.AdminAppointments(ctx, token)
}

// Dashboard fetches users and appointments concurrently and summarizes them.
func (p *Portal) Dashboard(ctx context.Context) (appointment.Summary, error) {
	token, err := p.token()
	if err != nil {
		return appointment.Summary{}, err
	}

	var (
		users []api.User
		appts []appointment.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = p.backend.AdminUsers(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = p.backend.AdminAppointments(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return appointment.Summary{}, err
	}

	return appointment.Summarize(len(users), appts, p.now()), nil
}
