// Package agent provides an AI advisor that reviews a computed reinvestment
// plan in plain language.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

const instructions = `You are a careful assistant reviewing a portfolio
reinvestment plan. The plan was computed to approach the target ratios as
closely as whole-unit purchases allow, without exceeding the available cash.
Comment briefly on how well the resulting allocation matches the targets and
point out anything the user should double check (stale prices, holdings that
were excluded from the purchase). Do not give investment advice.`

// Advisor holds a chat session with the model.
type Advisor struct {
	chat *genai.Chat
}

// NewAdvisor creates the advisor and its chat session. The client reads its
// API key from the environment.
func NewAdvisor(ctx context.Context, client *genai.Client) (*Advisor, error) {
	chat, err := client.Chats.Create(ctx, model, nil, nil)
	if err != nil {
		return nil, err
	}
	return &Advisor{chat: chat}, nil
}

// Review sends the rendered plan to the model and returns its commentary.
func (a *Advisor) Review(ctx context.Context, report string) (string, error) {
	prompt := instructions + "\n\nHere is the plan:\n\n" + report
	resp, err := a.chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the advisor")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
