package diagnostic

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"cineze/internal/domain"
	"cineze/internal/providers/textgen"
)

func positioningCall(t *testing.T) Call {
	t.Helper()
	role, _ := testRoles(t).Specialist(RolePositioning)
	return CallFor(role, "DADOS")
}

func TestInvokeFirstAttemptSucceeds(t *testing.T) {
	body := fixture(t, RolePositioning)
	calls := 0
	gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		calls++
		return body, nil
	})
	doc, ok := Invoke[domain.PositioningReport](context.Background(), NewAgent(gen, nopLogger(), nil), positioningCall(t))
	if !ok || doc == nil {
		t.Fatalf("Invoke() = %v, %v; want document", doc, ok)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestInvokeRetriesIdenticalRequestOnce(t *testing.T) {
	body := fixture(t, RolePositioning)
	var reqs []textgen.Request
	gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		reqs = append(reqs, req)
		if len(reqs) == 1 {
			return "desculpe, não consegui", nil
		}
		return body, nil
	})
	_, ok := Invoke[domain.PositioningReport](context.Background(), NewAgent(gen, nopLogger(), nil), positioningCall(t))
	if !ok {
		t.Fatalf("expected recovery on second attempt")
	}
	if len(reqs) != 2 {
		t.Fatalf("calls = %d, want 2", len(reqs))
	}
	if reqs[0] != reqs[1] {
		t.Fatalf("retry request differs: %+v vs %+v", reqs[0], reqs[1])
	}
}

func TestInvokeGivesUpAfterTwoAttempts(t *testing.T) {
	cases := map[string]textgen.GeneratorFunc{
		"call error": func(ctx context.Context, req textgen.Request) (string, error) { return "", errBoom },
		"malformed":  func(ctx context.Context, req textgen.Request) (string, error) { return "```json\n{nope", nil },
		"panic":      func(ctx context.Context, req textgen.Request) (string, error) { panic("transport exploded") },
	}
	for name, inner := range cases {
		t.Run(name, func(t *testing.T) {
			calls := 0
			gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
				calls++
				return inner(ctx, req)
			})
			reg := prometheus.NewRegistry()
			metrics := NewMetrics(reg)
			doc, ok := Invoke[domain.PositioningReport](context.Background(), NewAgent(gen, nopLogger(), metrics), positioningCall(t))
			if ok || doc != nil {
				t.Fatalf("Invoke() = %v, %v; want unavailable", doc, ok)
			}
			if calls != maxAttempts {
				t.Fatalf("calls = %d, want %d", calls, maxAttempts)
			}
			if got := testutil.ToFloat64(metrics.unavailable.WithLabelValues(string(RolePositioning))); got != 1 {
				t.Fatalf("unavailable counter = %v, want 1", got)
			}
		})
	}
}

func TestInvokeCountsAttemptOutcomes(t *testing.T) {
	body := fixture(t, RolePositioning)
	n := 0
	gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		n++
		if n == 1 {
			return "", errBoom
		}
		return body, nil
	})
	metrics := NewMetrics(prometheus.NewRegistry())
	Invoke[domain.PositioningReport](context.Background(), NewAgent(gen, nopLogger(), metrics), positioningCall(t))
	if got := testutil.ToFloat64(metrics.attempts.WithLabelValues(string(RolePositioning), "call_error")); got != 1 {
		t.Fatalf("call_error attempts = %v", got)
	}
	if got := testutil.ToFloat64(metrics.attempts.WithLabelValues(string(RolePositioning), "ok")); got != 1 {
		t.Fatalf("ok attempts = %v", got)
	}
}
