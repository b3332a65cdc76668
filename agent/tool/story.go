package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	contentx "github.com/tmaharjan/voxcore/agent/content"
	contractx "github.com/tmaharjan/voxcore/agent/contract"
	statex "github.com/tmaharjan/voxcore/agent/state"
)

func storyToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolChoose,
			Desc: "Commit the player to one of the current scene's choices.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"choice_id": {Type: schema.String, Desc: "Id of the chosen option", Required: true},
				"scene_id":  {Type: schema.String, Desc: "Scene the choice belongs to, for cross-checking"},
			}),
		},
	}
}

// choose resolves the choice against the player's current scene, applies its
// effects in order, then transitions. Bad choice ids are answered with the
// valid set; the graph itself was validated at load so result scenes always
// resolve here.
func (r *Registry) choose(ctx context.Context, sess *statex.Session, args map[string]any) (string, error) {
	if sess.Player == nil {
		return "", statex.ErrNoPlayerState
	}

	choiceID, err := stringArg(args, "choice_id")
	if err != nil {
		return err.Error(), nil
	}

	sceneID, err := stringArg(args, "scene_id")
	if err != nil {
		return err.Error(), nil
	}
	if sceneID != "" && sceneID != sess.Player.SceneID {
		return fmt.Sprintf("The player is in scene %q, not %q. Narrate the current scene again.", sess.Player.SceneID, sceneID), nil
	}

	scene, ok := r.world[sess.Player.SceneID]
	if !ok {
		return "", fmt.Errorf("%w: current scene %q not in graph", contractx.ErrGraphInvalid, sess.Player.SceneID)
	}

	choice, ok := scene.Choices[choiceID]
	if !ok {
		return fmt.Sprintf("Invalid choice %q. Valid choices: %s.", choiceID, strings.Join(choiceIDs(scene.Choices), ", ")), nil
	}

	if err := statex.ApplyEffects(sess, choice.StateEffects()); err != nil {
		return "", err
	}
	sess.Player.SceneID = choice.ResultScene

	next := r.world[choice.ResultScene]
	return narrate(next), nil
}

func narrate(scene contentx.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Narrate this scene to the player: %s. %s", scene.Title, scene.Desc)

	ids := choiceIDs(scene.Choices)
	if len(ids) == 0 {
		return b.String()
	}

	b.WriteString(" Then offer these choices: ")
	for i, id := range ids {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", id, scene.Choices[id].Desc)
	}
	b.WriteString(".")
	return b.String()
}

func choiceIDs(choices map[string]contentx.Choice) []string {
	ids := make([]string, 0, len(choices))
	for id := range choices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
