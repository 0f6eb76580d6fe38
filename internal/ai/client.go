// Package ai talks to the remote text generation service.
package ai

import "context"

// Client is the remote generation backend. All implementations are
// interchangeable.
type Client interface {
	// Generate returns the model's text reply to prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Transcribe sends a binary file with prompt and returns the text reply.
	Transcribe(ctx context.Context, data []byte, mimeType, prompt string) (string, error)
}

// StubClient returns canned answers and records the last prompt.
type StubClient struct {
	Text       string
	Err        error
	LastPrompt string
	LastMIME   string
	Calls      int
}

// NewStubClient returns a stub that answers with text.
func NewStubClient(text string) *StubClient { return &StubClient{Text: text} }

// Generate implements Client.
func (c *StubClient) Generate(_ context.Context, prompt string) (string, error) {
	c.Calls++
	c.LastPrompt = prompt
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}

// Transcribe implements Client.
func (c *StubClient) Transcribe(_ context.Context, _ []byte, mimeType, prompt string) (string, error) {
	c.Calls++
	c.LastPrompt = prompt
	c.LastMIME = mimeType
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}
