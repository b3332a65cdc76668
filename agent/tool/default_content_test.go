package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	contentx "github.com/tmaharjan/voxcore/agent/content"
	statex "github.com/tmaharjan/voxcore/agent/state"
)

// Exercises the shipped default content end to end: topic selection against
// the bootstrapped topic table, and the opening path of the default story.
func TestDefaultContentScenarios(t *testing.T) {
	t.Parallel()

	bundle, err := contentx.NewStore(t.TempDir()).LoadBundle()
	if err != nil {
		t.Fatalf("LoadBundle() error = %v", err)
	}
	r := NewRegistry(bundle, &fakeLeadSink{}, nil, time.Now)

	t.Run("select dns topic", func(t *testing.T) {
		t.Parallel()

		sess, err := statex.NewSession("tutor-1", statex.FlavorTutor, "", time.Now())
		if err != nil {
			t.Fatalf("NewSession() error = %v", err)
		}

		if _, err := r.Dispatch(context.Background(), sess, ToolSelectTopic, map[string]any{"topic_id": "dns"}); err != nil {
			t.Fatalf("Dispatch(select_topic) error = %v", err)
		}
		if sess.Tutor.TopicID != "dns" {
			t.Fatalf("Tutor.TopicID = %q, want dns", sess.Tutor.TopicID)
		}

		reply, err := r.Dispatch(context.Background(), sess, ToolSetMode, map[string]any{"mode": "learn"})
		if err != nil {
			t.Fatalf("Dispatch(set_mode) error = %v", err)
		}
		topic, _ := bundle.Topics.Get("dns")
		if !strings.Contains(reply, topic.Summary) {
			t.Errorf("learn reply %q missing DNS summary", reply)
		}
	})

	t.Run("opening story path", func(t *testing.T) {
		t.Parallel()

		sess, err := statex.NewSession("story-1", statex.FlavorStory, bundle.EntryScene, time.Now())
		if err != nil {
			t.Fatalf("NewSession() error = %v", err)
		}

		if _, err := r.Dispatch(context.Background(), sess, ToolChoose, map[string]any{"choice_id": "inspect_pod"}); err != nil {
			t.Fatalf("Dispatch(inspect_pod) error = %v", err)
		}
		if sess.Player.SceneID != "escape_pod" {
			t.Fatalf("SceneID = %q, want escape_pod", sess.Player.SceneID)
		}

		if _, err := r.Dispatch(context.Background(), sess, ToolChoose, map[string]any{"choice_id": "take_items"}); err != nil {
			t.Fatalf("Dispatch(take_items) error = %v", err)
		}
		if sess.Player.SceneID != "distress_signal" {
			t.Errorf("SceneID = %q, want distress_signal", sess.Player.SceneID)
		}
		if !sess.Player.HasItem("scanning_visor") {
			t.Error("inventory missing scanning_visor")
		}
		if len(sess.Player.Journal) != 1 {
			t.Errorf("journal entries = %d, want 1", len(sess.Player.Journal))
		}
	})
}
