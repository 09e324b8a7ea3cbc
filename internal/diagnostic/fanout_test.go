package diagnostic

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFanOutReturnsFiveOrderedSlots(t *testing.T) {
	roles := testRoles(t)
	gen := newScriptedGenerator(roles, func(role RoleID, attempt int) (string, error) {
		return fixture(t, role), nil
	})
	results := NewFanOut(NewAgent(gen, nopLogger(), nil), roles, nopLogger()).Run(context.Background(), sampleQuestionnaire())

	slots := results.Slots()
	if len(slots) != specialistCount {
		t.Fatalf("slots = %d", len(slots))
	}
	for i, slot := range slots {
		if slot.Role != SpecialistOrder[i] {
			t.Fatalf("slot %d role = %s, want %s", i, slot.Role, SpecialistOrder[i])
		}
		if !slot.Available() {
			t.Fatalf("slot %d unavailable", i)
		}
	}
	if results.Available() != specialistCount {
		t.Fatalf("Available() = %d", results.Available())
	}
	if results.DigitalPresence.Presence.OverallScore != 3.5 {
		t.Fatalf("digital presence parsed wrong: %+v", results.DigitalPresence)
	}
}

func TestFanOutAllUnavailableStillSettles(t *testing.T) {
	roles := testRoles(t)
	gen := newScriptedGenerator(roles, func(role RoleID, attempt int) (string, error) {
		return "", errBoom
	})
	done := make(chan SpecialistResults, 1)
	go func() {
		done <- NewFanOut(NewAgent(gen, nopLogger(), nil), roles, nopLogger()).Run(context.Background(), sampleQuestionnaire())
	}()
	select {
	case results := <-done:
		for i, slot := range results.Slots() {
			if slot.Available() {
				t.Fatalf("slot %d should be unavailable", i)
			}
			if slot.Role != SpecialistOrder[i] {
				t.Fatalf("slot %d role = %s", i, slot.Role)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("fan-out did not settle")
	}
	for _, id := range SpecialistOrder {
		if got := gen.count(id); got != maxAttempts {
			t.Fatalf("%s attempts = %d, want %d", id, got, maxAttempts)
		}
	}
}

func TestFanOutRunsSpecialistsConcurrently(t *testing.T) {
	roles := testRoles(t)
	var (
		mu      sync.Mutex
		started int
	)
	allStarted := make(chan struct{})
	gen := newScriptedGenerator(roles, func(role RoleID, attempt int) (string, error) {
		mu.Lock()
		started++
		if started == specialistCount {
			close(allStarted)
		}
		mu.Unlock()
		select {
		case <-allStarted:
			return fixture(t, role), nil
		case <-time.After(5 * time.Second):
			return "", errBoom
		}
	})
	results := NewFanOut(NewAgent(gen, nopLogger(), nil), roles, nopLogger()).Run(context.Background(), sampleQuestionnaire())
	if results.Available() != specialistCount {
		t.Fatalf("Available() = %d; specialists did not overlap", results.Available())
	}
}

func TestFanOutSharesOnePrompt(t *testing.T) {
	roles := testRoles(t)
	gen := newScriptedGenerator(roles, func(role RoleID, attempt int) (string, error) {
		return fixture(t, role), nil
	})
	NewFanOut(NewAgent(gen, nopLogger(), nil), roles, nopLogger()).Run(context.Background(), sampleQuestionnaire())
	want := FormatQuestionnaire(sampleQuestionnaire())
	for _, id := range SpecialistOrder {
		req := gen.lastRequest(id)
		if req.UserMessage != want {
			t.Fatalf("%s user message differs", id)
		}
		role, _ := roles.Specialist(id)
		if req.Temperature != role.Temperature || req.MaxOutputTokens != role.MaxOutputTokens || req.Model != role.Model {
			t.Fatalf("%s request params = %+v", id, req)
		}
	}
}
