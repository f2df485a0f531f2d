// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate renders papers into Korean through a chat-completion
// model and parses the model's free-form reply back into fields.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// systemPrompt pins the model to the translator role and the reply format.
const systemPrompt = "You are a professional academic translator specializing in cryptography and computer science. " +
	"Use formal Korean (존댓말). Translate titles and abstracts fully to Korean, keeping only proper nouns/acronyms in English. " +
	"NEVER use parentheses for translations. Translate keywords fully to Korean. Output only the requested format."

// translatePromptTmpl is the per-paper prompt. It requests the exact
// TITLE:/ABSTRACT:/KEYWORDS: line format that ParseResponse understands.
var translatePromptTmpl = template.Must(template.New("translate").Parse(`Translate the following academic paper information to Korean.
- Use formal/polite speech (존댓말).
- For Title: Translate to Korean naturally. Keep only proper nouns and acronyms in English (e.g., NIST, ARMv9, ML-DSA).
- For Abstract: Translate fully to Korean. Keep only proper nouns and acronyms in English. IMPORTANT: Do NOT use any parentheses for translations like "영어(한글)" or "한글(영어)". Just translate directly.
- For Keywords: Translate them fully to Korean.

Title: {{.Title}}

Abstract: {{.Abstract}}

Keywords: {{.Keywords}}

Respond in this exact format:
TITLE: <translated title in Korean, only proper nouns/acronyms in English>
ABSTRACT: <translated abstract in 존댓말, NO parenthetical translations>
KEYWORDS: <translate ONLY the {{.KeywordCount}} keywords fully to Korean, comma-separated, in the same order>`))

// Backend abstracts the chat-completion API so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Translator translates one paper at a time, title, abstract, and
// keywords in a single call so terminology stays consistent.
type Translator struct {
	Backend Backend
}

// TranslatePaper returns the paper's fields translated to Korean.
// Translation is strictly best-effort: any backend failure, an empty
// reply, or a reply without recognizable markers falls back to the
// original English values so delivery is never blocked.
func (t *Translator) TranslatePaper(ctx context.Context, paper *types.Paper) (Translation, error) {
	orig := Translation{
		Title:    paper.Title,
		Abstract: paper.Abstract,
		Keywords: paper.Keywords,
	}
	if t == nil || t.Backend == nil {
		return orig, nil
	}

	prompt, err := renderPrompt(paper)
	if err != nil {
		return orig, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := t.Backend.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return orig, fmt.Errorf("translation call: %w", err)
	}

	return ParseResponse(reply, orig), nil
}

// renderPrompt fills the prompt template for one paper.
func renderPrompt(paper *types.Paper) (string, error) {
	data := struct {
		Title        string
		Abstract     string
		Keywords     string
		KeywordCount int
	}{
		Title:        paper.Title,
		Abstract:     paper.Abstract,
		Keywords:     strings.Join(paper.Keywords, ", "),
		KeywordCount: len(paper.Keywords),
	}
	var buf bytes.Buffer
	if err := translatePromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cerebrasAPIURL is the Cerebras chat-completions endpoint. Package-level
// var for test substitution.
var cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"

// defaultModel is used when the config leaves the model empty.
const defaultModel = "gpt-oss-120b"

// CerebrasBackend calls the Cerebras chat-completions API (OpenAI wire
// format).
type CerebrasBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the model's text.
func (b *CerebrasBackend) Complete(ctx context.Context, system, user string) (string, error) {
	model := b.Model
	if model == "" {
		model = defaultModel
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cerebrasAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Cerebras API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Cerebras API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("parsing Cerebras response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("Cerebras response contained no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}
