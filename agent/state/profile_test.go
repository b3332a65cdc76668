package state

import (
	"testing"
	"time"
)

func TestQualifiedRequiresNameEmailUseCase(t *testing.T) {
	t.Parallel()

	p := &LeadProfile{}
	if p.Qualified() {
		t.Fatal("empty profile must not be qualified")
	}

	p.Name = "Sita"
	p.Email = "sita@example.com"
	if p.Qualified() {
		t.Fatal("profile without use case must not be qualified")
	}

	p.UseCase = "office internet"
	if !p.Qualified() {
		t.Fatal("profile with name+email+use_case must be qualified")
	}
}

func TestQualificationIsMonotoneUnderPartialPatches(t *testing.T) {
	t.Parallel()

	s, err := NewSession("s1", FlavorSDR, "", time.Now())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	full := ProfilePatch{
		Name:    ptr("Sita"),
		Email:   ptr("sita@example.com"),
		UseCase: ptr("gaming"),
	}
	if err := ApplyEffects(s, full.Effects()); err != nil {
		t.Fatalf("ApplyEffects() error = %v", err)
	}
	if !s.Lead.Qualified() {
		t.Fatal("expected qualified profile")
	}

	// A later partial update that omits everything previously set must not
	// drop qualification.
	partial := ProfilePatch{TeamSize: ptr("12")}
	if err := ApplyEffects(s, partial.Effects()); err != nil {
		t.Fatalf("ApplyEffects() error = %v", err)
	}
	if !s.Lead.Qualified() {
		t.Fatal("partial update made profile unqualified")
	}
	if s.Lead.Name != "Sita" || s.Lead.Email != "sita@example.com" || s.Lead.UseCase != "gaming" {
		t.Fatalf("prior fields lost: %+v", s.Lead)
	}
}

func TestRecordStampsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := &LeadProfile{Name: "Sita", Email: "sita@example.com", UseCase: "gaming"}

	rec := p.Record(now)
	if rec.Timestamp != "2026-03-14T09:30:00Z" {
		t.Fatalf("unexpected timestamp: %s", rec.Timestamp)
	}
	if rec.Name != "Sita" || rec.Email != "sita@example.com" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func ptr(s string) *string {
	return &s
}
