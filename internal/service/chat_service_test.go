package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/entity"
)

type generatorStub struct {
	reply    string
	err      error
	gotModel string
	gotRoles []string
}

func (g *generatorStub) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.gotModel = model
	g.gotRoles = nil
	for _, c := range contents {
		g.gotRoles = append(g.gotRoles, string(c.Role))
	}
	if g.err != nil {
		return nil, g.err
	}
	if g.reply == "" {
		return &genai.GenerateContentResponse{}, nil
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(g.reply, genai.RoleModel)},
		},
	}, nil
}

func TestGenerateResponse(t *testing.T) {
	ctx := context.Background()
	history := []entity.ChatTurn{
		{Role: "model", Text: "How are you feeling today?"},
		{Role: "user", Text: "A bit overwhelmed."},
	}
	t.Run("forwards history plus new message", func(t *testing.T) {
		stub := &generatorStub{reply: "That sounds heavy. Let's take it slow."}
		cs := service.NewChatServiceWithGenerator(stub)
		reply := cs.GenerateResponse(ctx, history, "Work is too much.")
		assert.Equal(t, "That sounds heavy. Let's take it slow.", reply)
		assert.Equal(t, "gemini-2.5-flash", stub.gotModel)
		// Prior turns keep their roles, the new message is a user turn
		assert.Equal(t, []string{"model", "user", "user"}, stub.gotRoles)
	})
	t.Run("failure collapses into the fallback", func(t *testing.T) {
		cs := service.NewChatServiceWithGenerator(&generatorStub{err: errors.New("quota exhausted")})
		reply := cs.GenerateResponse(ctx, history, "Hello?")
		assert.Equal(t, "I'm having a little trouble connecting right now, but please know that I'm here for you. Take a deep breath.", reply)
	})
	t.Run("empty answer gets the gentle prompt", func(t *testing.T) {
		cs := service.NewChatServiceWithGenerator(&generatorStub{})
		reply := cs.GenerateResponse(ctx, nil, "Hi")
		assert.Equal(t, "I'm here for you. Could you tell me more about how you're feeling?", reply)
	})
	t.Run("missing client uses the fallback too", func(t *testing.T) {
		cs := service.NewChatServiceWithGenerator(nil)
		reply := cs.GenerateResponse(ctx, nil, "Hi")
		assert.Equal(t, "I'm having a little trouble connecting right now, but please know that I'm here for you. Take a deep breath.", reply)
	})
}
