package ai

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexGemini is the alternate chat provider, selected with
// CHAT_PROVIDER=vertex. It does not serve embeddings.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Chat(ctx context.Context, req ChatRequest) (string, error) {
	// Copy so per-request settings never race on the shared model.
	m := *v.model
	if req.System != "" {
		m.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(req.System)},
		}
	}
	if req.Temperature > 0 {
		m.SetTemperature(float32(req.Temperature))
	}
	model := &m

	var sb strings.Builder
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}

	var out strings.Builder
	it := model.GenerateContentStream(ctx, vertexgenai.Text(sb.String()))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					out.WriteString(string(t))
				}
			}
		}
	}
	return out.String(), nil
}
