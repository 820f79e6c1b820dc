package service

import (
	"context"
	"log/slog"

	"google.golang.org/genai"

	"github.com/limbo/bloom/pkg/entity"
)

const chatModel = "gemini-2.5-flash"

const systemPrompt = `You are EmpathyBot, a warm, compassionate, and psychologically aware emotional wellness companion.
Your goal is to help users process their emotions, offer gentle encouragement, and suggest mindfulness techniques.
Keep responses concise (under 100 words unless deeply necessary), conversational, and empathetic.
Use soothing language. Do not diagnose mental illnesses; instead, guide them to professional help if they seem in crisis.`

const (
	// fallbackReply replaces any failure of the external call. The chat
	// surface never shows a raw error to the user.
	fallbackReply = "I'm having a little trouble connecting right now, but please know that I'm here for you. Take a deep breath."
	// emptyReply stands in when the service answers with no text at all
	emptyReply = "I'm here for you. Could you tell me more about how you're feeling?"
)

// TextGenerator is the boundary to the external generative service, shaped
// after the genai Models surface so tests can substitute a stub.
type TextGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type ChatService struct {
	gen TextGenerator
}

// NewChatService builds the companion over the Gemini API. An empty or
// invalid key is not fatal: the client either fails to build or fails per
// call, and both routes collapse into the fallback reply.
func NewChatService(ctx context.Context, apiKey string) *ChatService {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		slog.Warn("chat client unavailable, replies will use the fallback", slog.String("error", err.Error()))
		return &ChatService{}
	}
	return &ChatService{
		gen: client.Models,
	}
}

// NewChatServiceWithGenerator wires an explicit generator. Used by tests.
func NewChatServiceWithGenerator(gen TextGenerator) *ChatService {
	return &ChatService{
		gen: gen,
	}
}

// GenerateResponse forwards prior turns plus the new message in a single
// attempt, no retry. The caller may re-send the same message manually.
func (cs *ChatService) GenerateResponse(ctx context.Context, history []entity.ChatTurn, newMessage string) string {
	if cs.gen == nil {
		return fallbackReply
	}
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(newMessage, genai.RoleUser))

	resp, err := cs.gen.GenerateContent(ctx, chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	})
	if err != nil {
		// Logged for diagnostics only, never surfaced
		slog.Warn("chat generation failed", slog.String("error", err.Error()))
		return fallbackReply
	}
	text := resp.Text()
	if text == "" {
		return emptyReply
	}
	return text
}
