package diagnostic

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cineze/internal/domain"
	"cineze/internal/infra"
)

// SpecialistResults holds the five specialist outcomes. A nil field is an
// unavailable specialist.
type SpecialistResults struct {
	BusinessHealth  *domain.BusinessHealthReport
	DigitalPresence *domain.DigitalPresenceReport
	Acquisition     *domain.AcquisitionReport
	Positioning     *domain.PositioningReport
	Retention       *domain.RetentionReport
}

// Slot is one specialist outcome in role order.
type Slot struct {
	Role   RoleID
	Report any
}

func (s Slot) Available() bool { return s.Report != nil }

// Slots returns exactly five slots ordered as SpecialistOrder.
func (r SpecialistResults) Slots() [specialistCount]Slot {
	slots := [specialistCount]Slot{}
	for i, id := range SpecialistOrder {
		slots[i].Role = id
	}
	if r.BusinessHealth != nil {
		slots[0].Report = r.BusinessHealth
	}
	if r.DigitalPresence != nil {
		slots[1].Report = r.DigitalPresence
	}
	if r.Acquisition != nil {
		slots[2].Report = r.Acquisition
	}
	if r.Positioning != nil {
		slots[3].Report = r.Positioning
	}
	if r.Retention != nil {
		slots[4].Report = r.Retention
	}
	return slots
}

// Available counts the specialists that produced a report.
func (r SpecialistResults) Available() int {
	n := 0
	for _, s := range r.Slots() {
		if s.Available() {
			n++
		}
	}
	return n
}

// FanOut runs the five specialists concurrently and waits for all of them.
type FanOut struct {
	agent *Agent
	roles *Roles
	log   infra.Logger
}

func NewFanOut(agent *Agent, roles *Roles, log infra.Logger) *FanOut {
	return &FanOut{agent: agent, roles: roles, log: log.With().Str("component", "fanout").Logger()}
}

// Run never fails; every specialist settles as a report or as unavailable.
func (f *FanOut) Run(ctx context.Context, q domain.Questionnaire) SpecialistResults {
	business := FormatQuestionnaire(q)
	var (
		out SpecialistResults
		g   errgroup.Group
	)
	g.Go(func() error {
		out.BusinessHealth, _ = Invoke[domain.BusinessHealthReport](ctx, f.agent, f.call(RoleBusinessHealth, business))
		return nil
	})
	g.Go(func() error {
		out.DigitalPresence, _ = Invoke[domain.DigitalPresenceReport](ctx, f.agent, f.call(RoleDigitalPresence, business))
		return nil
	})
	g.Go(func() error {
		out.Acquisition, _ = Invoke[domain.AcquisitionReport](ctx, f.agent, f.call(RoleAcquisition, business))
		return nil
	})
	g.Go(func() error {
		out.Positioning, _ = Invoke[domain.PositioningReport](ctx, f.agent, f.call(RolePositioning, business))
		return nil
	})
	g.Go(func() error {
		out.Retention, _ = Invoke[domain.RetentionReport](ctx, f.agent, f.call(RoleRetention, business))
		return nil
	})
	_ = g.Wait()

	f.log.Debug().Int("available", out.Available()).Msg("specialists settled")
	return out
}

func (f *FanOut) call(id RoleID, business string) Call {
	role, _ := f.roles.Specialist(id)
	return CallFor(role, business)
}
