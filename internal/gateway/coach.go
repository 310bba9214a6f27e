package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/prompts"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// Coach continues a self-analysis coaching conversation. The self-analysis in
// req takes precedence over stored; with neither, an empty document is used.
func (g *Gateway) Coach(ctx context.Context, req types.CoachRequest, stored *types.SelfAnalysisData) (*types.CoachResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Field: "message", Message: msgMessageRequired}
	}

	data := req.SelfAnalysisData
	if data == nil {
		data = stored
	}
	if data == nil {
		data = types.EmptySelfAnalysis()
	}

	system, err := coachSystemPrompt(data)
	if err != nil {
		return nil, &ProviderError{Message: msgCoachFailed, Cause: err}
	}

	reply, err := g.client.Chat(ctx, toHistory(req.ConversationHistory), message, llm.TierStandard,
		llm.WithSystemInstruction(system),
		llm.WithTemperature(coachTemperature),
	)
	if err != nil {
		g.log.Error("coach chat failed", logging.Int("turns", len(req.ConversationHistory)), logging.Err(err))
		return nil, &ProviderError{Message: msgCoachFailed, Cause: err}
	}
	return &types.CoachResponse{Message: strings.TrimSpace(reply)}, nil
}

func coachSystemPrompt(data *types.SelfAnalysisData) (string, error) {
	doc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return prompts.Render(promptFile, "coach-system", map[string]string{"SelfAnalysis": string(doc)})
}

// toHistory maps wire roles onto chat roles: "user" stays user, anything else is the model.
func toHistory(msgs []types.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleModel
		if m.Role == string(llm.RoleUser) {
			role = llm.RoleUser
		}
		out = append(out, llm.Message{Role: role, Text: m.Content})
	}
	return out
}
