package content

import (
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
)

// ValidateWorld checks that every choice's result_scene resolves to a scene in
// the same mapping. All dangling references are collected before failing so
// authors can fix the content in one pass. Runs once at load time; traversal
// never re-checks.
func ValidateWorld(w World) error {
	var dangling []string

	for sceneID, scene := range w {
		for choiceID, choice := range scene.Choices {
			target := strings.TrimSpace(choice.ResultScene)
			if target == "" {
				dangling = append(dangling, fmt.Sprintf("scene %q choice %q has empty result_scene", sceneID, choiceID))
				continue
			}
			if _, ok := w[target]; !ok {
				dangling = append(dangling, fmt.Sprintf("scene %q choice %q -> missing scene %q", sceneID, choiceID, target))
			}
		}
	}

	if len(dangling) == 0 {
		return nil
	}

	sort.Strings(dangling)
	return fmt.Errorf("%w: %d dangling references:\n- %s",
		contractx.ErrGraphInvalid, len(dangling), strings.Join(dangling, "\n- "))
}
