package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contentx "github.com/tmaharjan/voxcore/agent/content"
	contractx "github.com/tmaharjan/voxcore/agent/contract"
	statex "github.com/tmaharjan/voxcore/agent/state"
	toolx "github.com/tmaharjan/voxcore/agent/tool"
)

type recordingVoice struct {
	ready    bool
	switches []statex.Persona
}

func (v *recordingVoice) Ready() bool { return v.ready }

func (v *recordingVoice) SwitchPersona(p statex.Persona) {
	v.switches = append(v.switches, p)
}

type nopSink struct{}

func (nopSink) Commit(context.Context, statex.LeadRecord) error { return nil }

func testBundle(t *testing.T) *contentx.Bundle {
	t.Helper()

	world := contentx.World{
		"intro": {
			Title: "Cryo Bay",
			Desc:  "You wake in a cryo bay.",
			Choices: map[string]contentx.Choice{
				"leave": {Desc: "Step out", ResultScene: "corridor"},
			},
		},
		"corridor": {Title: "Corridor", Desc: "A dim corridor."},
	}
	if err := contentx.ValidateWorld(world); err != nil {
		t.Fatalf("ValidateWorld() error = %v", err)
	}

	return &contentx.Bundle{
		Topics: contentx.NewTopicTable([]contentx.Topic{
			{ID: "dns", Title: "DNS", Summary: "DNS maps names to addresses.", SampleQuestion: "What does DNS do?"},
		}),
		World:      world,
		EntryScene: "intro",
	}
}

func newTestEngine(t *testing.T, voice contractx.VoiceSession) *Engine {
	t.Helper()

	bundle := testBundle(t)
	registry := toolx.NewRegistry(bundle, nopSink{}, nil, func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	})

	e, err := New(context.Background(), registry, voice, bundle.EntryScene, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &recordingVoice{})

	sess, err := e.CreateSession("s1", statex.FlavorStory)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.Player == nil || sess.Player.SceneID != "intro" {
		t.Fatalf("story session player = %+v, want entry scene intro", sess.Player)
	}

	if _, err := e.CreateSession("s1", statex.FlavorSDR); !errors.Is(err, contractx.ErrSessionExists) {
		t.Errorf("CreateSession(dup) error = %v, want ErrSessionExists", err)
	}

	if _, err := e.Snapshot("missing"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Errorf("Snapshot(missing) error = %v, want ErrSessionNotFound", err)
	}

	if err := e.EndSession("s1"); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if err := e.EndSession("s1"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Errorf("EndSession(twice) error = %v, want ErrSessionNotFound", err)
	}
}

func TestHandleToolMutatesSession(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &recordingVoice{})
	if _, err := e.CreateSession("s1", statex.FlavorSDR); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	reply, err := e.HandleTool(context.Background(), contractx.ToolCall{
		SessionID: "s1",
		Tool:      toolx.ToolUpdateProfile,
		Args:      map[string]any{"name": "Ana", "email": "ana@example.com", "use_case": "office fiber"},
	})
	if err != nil {
		t.Fatalf("HandleTool() error = %v", err)
	}
	if reply.Text == "" {
		t.Fatal("HandleTool() reply is empty")
	}

	snap, err := e.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !snap.Lead.Qualified() {
		t.Errorf("Lead = %+v, want qualified", snap.Lead)
	}
}

func TestHandleToolValidation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &recordingVoice{})
	if _, err := e.CreateSession("s1", statex.FlavorSDR); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	cases := []struct {
		name string
		call contractx.ToolCall
		want error
	}{
		{"empty session id", contractx.ToolCall{Tool: toolx.ToolUpdateProfile}, contractx.ErrValidation},
		{"empty tool", contractx.ToolCall{SessionID: "s1"}, contractx.ErrValidation},
		{"unknown session", contractx.ToolCall{SessionID: "nope", Tool: toolx.ToolUpdateProfile}, contractx.ErrSessionNotFound},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := e.HandleTool(context.Background(), tc.call); !errors.Is(err, tc.want) {
				t.Errorf("HandleTool() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPersonaSwitchWithReadyVoice(t *testing.T) {
	t.Parallel()

	voice := &recordingVoice{ready: true}
	e := newTestEngine(t, voice)
	if _, err := e.CreateSession("s1", statex.FlavorTutor); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := e.HandleTool(context.Background(), contractx.ToolCall{
		SessionID: "s1", Tool: toolx.ToolSelectTopic, Args: map[string]any{"topic_id": "dns"},
	}); err != nil {
		t.Fatalf("HandleTool(select_topic) error = %v", err)
	}

	reply, err := e.HandleTool(context.Background(), contractx.ToolCall{
		SessionID: "s1", Tool: toolx.ToolSetMode, Args: map[string]any{"mode": "quiz"},
	})
	if err != nil {
		t.Fatalf("HandleTool(set_mode) error = %v", err)
	}

	want, _ := statex.PersonaFor(statex.ModeQuiz)
	if len(voice.switches) != 1 || voice.switches[0] != want {
		t.Errorf("persona switches = %v, want one switch to %+v", voice.switches, want)
	}
	if strings.Contains(reply.Text, "Persona switch unavailable") {
		t.Errorf("reply %q carries degraded note despite ready voice", reply.Text)
	}
}

func TestPersonaSwitchDegradesWithoutVoice(t *testing.T) {
	t.Parallel()

	voice := &recordingVoice{ready: false}
	e := newTestEngine(t, voice)
	if _, err := e.CreateSession("s1", statex.FlavorTutor); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	reply, err := e.HandleTool(context.Background(), contractx.ToolCall{
		SessionID: "s1", Tool: toolx.ToolSetMode, Args: map[string]any{"mode": "quiz"},
	})
	if err != nil {
		t.Fatalf("HandleTool() error = %v", err)
	}

	if len(voice.switches) != 0 {
		t.Errorf("persona switches = %v, want none", voice.switches)
	}
	if !strings.Contains(reply.Text, "Persona switch unavailable") {
		t.Errorf("reply %q missing degraded note", reply.Text)
	}

	// The mode change itself still lands.
	snap, err := e.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Tutor.Mode != statex.ModeQuiz {
		t.Errorf("Tutor.Mode = %q, want quiz", snap.Tutor.Mode)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &recordingVoice{})
	if _, err := e.CreateSession("s1", statex.FlavorStory); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	snap, err := e.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	snap.Player.SceneID = "tampered"
	snap.Player.Inventory = append(snap.Player.Inventory, "smuggled")

	again, err := e.Snapshot("s1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if again.Player.SceneID != "intro" || len(again.Player.Inventory) != 0 {
		t.Errorf("engine state leaked through snapshot: %+v", again.Player)
	}
}

func TestToolsFor(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &recordingVoice{})
	if _, err := e.CreateSession("s1", statex.FlavorTutor); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	infos, err := e.ToolsFor("s1")
	if err != nil {
		t.Fatalf("ToolsFor() error = %v", err)
	}

	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{toolx.ToolSelectTopic, toolx.ToolSetMode, toolx.ToolEvaluateTeaching} {
		if !names[want] {
			t.Errorf("ToolsFor() missing %s", want)
		}
	}
	if names[toolx.ToolChoose] {
		t.Error("ToolsFor() exposes choose to tutor sessions")
	}
}
