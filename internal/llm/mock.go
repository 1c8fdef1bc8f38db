package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response  string
	Embedding []float32
	Err       error
	EmbedErr  error

	Prompts []string
}

func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

func (m *MockClient) Embed(_ context.Context, _ string) ([]float32, error) {
	return m.Embedding, m.EmbedErr
}
