// Package llm drives a function-calling chat model against the engine: it
// declares the session's tool schemas, relays the model's tool calls through
// the engine, and feeds replies back until the model produces plain text.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
	enginex "github.com/tmaharjan/voxcore/agent/engine"
	promptx "github.com/tmaharjan/voxcore/agent/prompt"
	statex "github.com/tmaharjan/voxcore/agent/state"
	openrouterx "github.com/tmaharjan/voxcore/pkg/openrouter"
)

var ErrTooManyToolRounds = errors.New("model exceeded the tool round budget for one turn")

type Runner struct {
	client        *openaisdk.Client
	model         string
	prompts       promptx.PromptSet
	engine        *enginex.Engine
	maxToolRounds int
}

func NewRunner(cfg Config, eng *enginex.Engine, prompts promptx.PromptSet) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	client := openrouterx.NewClient(cfg.OpenRouter())
	if client == nil {
		return nil, fmt.Errorf("%w: api key is required", contractx.ErrValidation)
	}

	rounds := cfg.MaxToolRounds
	if rounds <= 0 {
		rounds = 4
	}

	return &Runner{
		client:        client,
		model:         strings.TrimSpace(cfg.Model),
		prompts:       prompts,
		engine:        eng,
		maxToolRounds: rounds,
	}, nil
}

// Conversation is one model-facing chat bound to a single session. Not safe
// for concurrent use; one conversation serves one caller at a time.
type Conversation struct {
	runner    *Runner
	sessionID string
	tools     []openaisdk.ChatCompletionToolUnionParam
	messages  []openaisdk.ChatCompletionMessageParamUnion
}

// NewConversation opens a conversation for an existing session. faqJSON is
// spliced into the system prompt for lead-qualification sessions.
func (r *Runner) NewConversation(sessionID string, flavor statex.Flavor, faqJSON string) (*Conversation, error) {
	infos, err := r.engine.ToolsFor(sessionID)
	if err != nil {
		return nil, err
	}

	tools, err := toOpenAITools(infos)
	if err != nil {
		return nil, err
	}

	return &Conversation{
		runner:    r,
		sessionID: sessionID,
		tools:     tools,
		messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(r.prompts.For(flavor, faqJSON)),
		},
	}, nil
}

// Say sends one user turn and runs the tool loop until the model answers in
// plain text.
func (c *Conversation) Say(ctx context.Context, text string) (string, error) {
	c.messages = append(c.messages, openaisdk.UserMessage(text))

	for round := 0; round < c.runner.maxToolRounds; round++ {
		resp, err := c.runner.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
			Model:    openaisdk.ChatModel(c.runner.model),
			Messages: c.messages,
			Tools:    c.tools,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			c.messages = append(c.messages, msg.ToParam())
			return strings.TrimSpace(msg.Content), nil
		}

		c.messages = append(c.messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			result := c.dispatch(ctx, tc.Function.Name, tc.Function.Arguments)
			c.messages = append(c.messages, openaisdk.ToolMessage(result, tc.ID))
		}
	}

	return "", ErrTooManyToolRounds
}

// dispatch runs one tool call through the engine. Malformed arguments and
// engine failures both come back as tool result text so the model can
// recover; there is nothing else it could do with a Go error.
func (c *Conversation) dispatch(ctx context.Context, tool, rawArgs string) string {
	var args map[string]any
	if strings.TrimSpace(rawArgs) != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return fmt.Sprintf("tool arguments were not valid JSON: %v", err)
		}
	}

	reply, err := c.runner.engine.HandleTool(ctx, contractx.ToolCall{
		SessionID: c.sessionID,
		Tool:      tool,
		Args:      args,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", c.sessionID).Str("tool", tool).Msg("tool dispatch failed")
		return fmt.Sprintf("tool failed: %v. Apologize briefly and continue.", err)
	}
	return reply.Text
}

func toOpenAITools(infos []*schema.ToolInfo) ([]openaisdk.ChatCompletionToolUnionParam, error) {
	out := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(infos))
	for _, info := range infos {
		params := openaisdk.FunctionParameters{}
		if info.ParamsOneOf != nil {
			openapi, err := info.ParamsOneOf.ToOpenAPIV3()
			if err != nil {
				return nil, fmt.Errorf("tool %s: convert params: %w", info.Name, err)
			}
			raw, err := json.Marshal(openapi)
			if err != nil {
				return nil, fmt.Errorf("tool %s: marshal params: %w", info.Name, err)
			}
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, fmt.Errorf("tool %s: decode params: %w", info.Name, err)
			}
		}

		out = append(out, openaisdk.ChatCompletionFunctionTool(openaisdk.FunctionDefinitionParam{
			Name:        info.Name,
			Description: openaisdk.String(info.Desc),
			Parameters:  params,
		}))
	}
	return out, nil
}
