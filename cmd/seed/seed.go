package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"mindpulse/internal/app"
	"mindpulse/internal/model"
	"mindpulse/internal/scoring"
)

// MaxDemoDays bounds the generated history
const MaxDemoDays = 365

type AdminOptions struct {
	Email    string
	Password string
	FullName string
}

type DemoOptions struct {
	Email    string
	Password string
	Days     int
	Seed     uint64
	Now      time.Time
}

// DemoRow is one generated check-in and the analysis it received
type DemoRow struct {
	Date     time.Time
	Mood     int
	Sleep    float64
	Stress   int
	Risk     int
	Wellness float64
	Alerts   []model.AlertKind
}

// SeedAdmin creates an admin account. An existing account with the same
// email is reactivated and promoted instead.
func SeedAdmin(ctx context.Context, a *app.App, opts AdminOptions) (*model.User, error) {
	user, err := ensureUser(ctx, a, opts.Email, opts.Password, opts.FullName)
	if err != nil {
		return nil, err
	}
	user.Role = model.RoleAdmin
	user.IsActive = true
	if err := a.Store.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("promote %s: %w", user.Email, err)
	}
	return user, nil
}

// SeedDemo writes one check-in per day for the last opts.Days days,
// ending today, and analyzes each synchronously.
func SeedDemo(ctx context.Context, a *app.App, opts DemoOptions) ([]DemoRow, error) {
	if opts.Days < 1 || opts.Days > MaxDemoDays {
		return nil, fmt.Errorf("days must be between 1 and %d", MaxDemoDays)
	}
	user, err := ensureUser(ctx, a, opts.Email, opts.Password, "Demo User")
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	rows := make([]DemoRow, 0, opts.Days)
	for i := opts.Days - 1; i >= 0; i-- {
		checkin := &model.Checkin{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			Mood:       scoring.MinMood + rng.IntN(scoring.MaxMood),
			SleepHours: 4 + 0.5*float64(rng.IntN(13)),
			CreatedAt:  opts.Now.UTC().AddDate(0, 0, -i).Truncate(time.Millisecond),
		}
		if err := a.Store.Checkins.Create(ctx, checkin); err != nil {
			return nil, fmt.Errorf("create checkin: %w", err)
		}

		analysis, alerts, err := a.AnalysisService.Process(ctx, checkin.ID)
		if err != nil {
			return nil, fmt.Errorf("analyze checkin %s: %w", checkin.ID, err)
		}
		if analysis == nil {
			return nil, fmt.Errorf("checkin %s vanished before analysis", checkin.ID)
		}

		row := DemoRow{
			Date:     checkin.CreatedAt,
			Mood:     checkin.Mood,
			Sleep:    checkin.SleepHours,
			Stress:   analysis.Labels.StressLevel,
			Risk:     analysis.Labels.RiskScore,
			Wellness: analysis.Labels.OverallWellness,
		}
		for _, alert := range alerts {
			row.Alerts = append(row.Alerts, alert.Kind)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PrintDemo renders rows as a table
func PrintDemo(w io.Writer, rows []DemoRow) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Mood", "Sleep", "Stress", "Risk", "Wellness", "Alerts"})

	var data [][]string
	for _, r := range rows {
		alerts := make([]string, 0, len(r.Alerts))
		for _, k := range r.Alerts {
			alerts = append(alerts, string(k))
		}
		data = append(data, []string{
			r.Date.Format("2006-01-02 Mon"),
			strconv.Itoa(r.Mood),
			scoring.FormatHours(r.Sleep),
			strconv.Itoa(r.Stress),
			strconv.Itoa(r.Risk),
			strconv.FormatFloat(r.Wellness, 'f', 1, 64),
			strings.Join(alerts, ", "),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func ensureUser(ctx context.Context, a *app.App, email, password, fullName string) (*model.User, error) {
	existing, err := a.Store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if password == "" {
		return nil, errors.New("password is required to create an account")
	}

	user, _, err := a.AuthService.Signup(ctx, model.SignupRequest{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", email, err)
	}
	return user, nil
}
