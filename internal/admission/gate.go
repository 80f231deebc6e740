// Package admission decides whether an order's delivery date is still
// acceptable at submission time, based on the store calendar and
// per-category cutoff times stored in settings.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/freshboxhq/freshbox-backend/internal/settings"
	"github.com/freshboxhq/freshbox-backend/pkg/enums"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

type settingsReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Gate enforces the daily ordering deadline and rejects delivery dates
// already behind the store calendar. Orders for future delivery dates
// always pass; missing cutoff configuration never blocks.
type Gate struct {
	settings settingsReader
	logg     *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewGate builds a cutoff gate evaluating wall-clock time in the given
// timezone.
func NewGate(reader settingsReader, timezone string, logg *logger.Logger) (*Gate, error) {
	if reader == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Gate{
		settings: reader,
		logg:     logg,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Check rejects delivery dates already behind the store calendar, and
// same-day orders placed at or after the category's cutoff. Evaluated
// inside the order-creation request, never from cached state.
func (g *Gate) Check(ctx context.Context, orderType enums.OrderType, deliveryDate time.Time) error {
	now := g.now().In(g.loc)
	delivery := deliveryDate.In(g.loc)
	if beforeDay(delivery, now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery date cannot be in the past")
	}
	if !sameDay(now, delivery) {
		return nil
	}

	raw, ok, err := g.settings.Get(ctx, cutoffKey(orderType))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	cutoffMins, parseErr := parseHHMM(raw)
	if parseErr != nil {
		if g.logg != nil {
			logCtx := g.logg.WithFields(ctx, map[string]any{"cutoff": raw, "order_type": orderType.String()})
			g.logg.Warn(logCtx, "admission.cutoff.unparseable")
		}
		return nil
	}

	currentMins := now.Hour()*60 + now.Minute()
	if currentMins >= cutoffMins {
		msg := fmt.Sprintf("orders for today close at %s, please choose a different delivery date", formatCutoff(cutoffMins))
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return nil
}

func cutoffKey(orderType enums.OrderType) string {
	if orderType == enums.OrderTypeSelf {
		return settings.KeySelfCutoffTime
	}
	// donate and sponsor share the donation deadline
	return settings.KeyDonateCutoffTime
}

// beforeDay reports whether a falls on an earlier calendar day than b.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func parseHHMM(raw string) (int, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// formatCutoff renders minutes-of-day as a 12-hour label, e.g. "6:00 PM".
func formatCutoff(mins int) string {
	t := time.Date(0, 1, 1, mins/60, mins%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
