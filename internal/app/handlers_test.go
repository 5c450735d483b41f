package app

import (
	"context"
	"testing"

	"github.com/m3rciful/leadbot/internal/flow"
	"github.com/m3rciful/leadbot/internal/lead"
)

type stubStore struct{}

func (stubStore) Append(context.Context, lead.Lead) error  { return nil }
func (stubStore) All(context.Context) ([]lead.Lead, error) { return nil, nil }

func TestBuildRegistryWiresHandlers(t *testing.T) {
	variant, err := flow.VariantByName("basic")
	if err != nil {
		t.Fatalf("variant: %v", err)
	}
	svc := lead.NewService(stubStore{}, nil, 0, variant.Columns)
	ctrl := flow.NewController(variant, flow.NewSessions(0), &botPrompter{}, leadSink{svc: svc})

	reg, err := buildRegistry(ctrl, svc)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}

	if _, ok := reg.GetCallback(callbackUnique); !ok {
		t.Fatalf("callback %q must be registered", callbackUnique)
	}
	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Fatal("/start must be registered")
	}
	_, cmd, ok := reg.LookupCommand("/leads_today")
	if !ok {
		t.Fatal("/leads_today must be registered")
	}
	if !cmd.AdminOnly {
		t.Fatal("/leads_today must be admin-only")
	}
	if reg.TextFallback() == nil {
		t.Fatal("text fallback must be set")
	}
}
