package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"formflow_app_go/config"
)

// The AI generation pipeline sends a single prompt to the chat-completions
// capability and parses the structured JSON out of the reply. Transport
// failures (missing credential, non-2xx, network error) are absorbed by the
// deterministic fallback generator and never surfaced. A malformed reply is
// handled asymmetrically: the field-suggestion call sites fall back, while
// whole-form generation reports a parse failure to the caller.

// openAIEndpoint is a package variable so tests can point the client at a
// stub server.
var openAIEndpoint = "https://api.openai.com/v1/chat/completions"

const formGenerationInstructions = `You are a form generation assistant. Generate a multi-step form configuration based on the user's description.

Return ONLY a valid JSON object with this structure:
{
  "title": "Form Title",
  "description": "Form description",
  "steps": [
    {
      "title": "Step Title",
      "description": "Step description",
      "fields": [
        {
          "type": "text|email|tel|number|textarea|select|radio|checkbox|date",
          "label": "Field Label",
          "placeholder": "Placeholder text",
          "required": true,
          "options": ["option1", "option2"]
        }
      ]
    }
  ]
}

Guidelines:
- Create logical step groupings
- Use appropriate field types
- Include helpful placeholders
- Mark important fields as required
- For select/radio/checkbox, provide relevant options`

const fieldGenerationInstructions = `You are a form field generator AI. Based on the user's description, generate appropriate form fields.

Return ONLY valid JSON in this exact format (no markdown, no code blocks, no explanations):
{
  "fields": [
    {
      "type": "text|email|number|tel|url|textarea|select|radio|checkbox|date",
      "label": "Field Label",
      "placeholder": "Placeholder text (optional)",
      "required": true,
      "options": ["option1", "option2"]
    }
  ]
}

Guidelines:
- Use appropriate field types (email for emails, tel for phone numbers, etc.)
- Generate realistic placeholders
- Set required based on field importance
- Include options array only for select, radio, or checkbox types
- Generate 3-8 relevant fields based on the prompt`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SuggestionContext describes the form being edited when asking for
// incremental field suggestions.
type SuggestionContext struct {
	FormTitle       string   `json:"form_title"`
	FormDescription string   `json:"form_description"`
	ExistingLabels  []string `json:"existing_labels"`
}

// GenerateForm produces a whole form draft from a free-text prompt. A
// transport failure or missing credential yields the deterministic fallback
// form; a reply that cannot be parsed as a JSON object is a caller-visible
// error with no fallback.
func GenerateForm(cfg *config.Config, prompt string) (*FormDraft, error) {
	text, err := requestCompletion(cfg, formGenerationInstructions+"\n\nUser request: "+prompt+"\n\nGenerate the form configuration:")
	if err != nil {
		log.Printf("AI completion unavailable, using fallback form generator: %v", err)
		draft := FallbackForm(prompt)
		draft.Normalize()
		return draft, nil
	}

	payload := extractJSONObject(stripCodeFences(text))
	if payload == "" {
		return nil, fmt.Errorf("failed to parse AI response")
	}

	var draft FormDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse AI response")
	}

	draft.Normalize()
	return &draft, nil
}

// GenerateFieldSuggestions produces a set of field drafts from a free-text
// prompt. Every failure, including a malformed reply, is absorbed by the
// deterministic fallback generator; this call never fails.
func GenerateFieldSuggestions(cfg *config.Config, prompt string) []FieldDraft {
	text, err := requestCompletion(cfg, fieldGenerationInstructions+"\n\nUser request: "+prompt)
	if err != nil {
		log.Printf("AI completion unavailable, using fallback field generator: %v", err)
		return normalizeFieldDrafts(FallbackFields(prompt))
	}

	var parsed struct {
		Fields []FieldDraft `json:"fields"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil || len(parsed.Fields) == 0 {
		log.Printf("AI reply unparsable, using fallback field generator")
		return normalizeFieldDrafts(FallbackFields(prompt))
	}

	return normalizeFieldDrafts(parsed.Fields)
}

// SuggestFields proposes 3-5 additional fields for an existing form. Same
// absorb-all-failures contract as GenerateFieldSuggestions.
func SuggestFields(cfg *config.Config, sctx SuggestionContext) []FieldDraft {
	existing := "None"
	if len(sctx.ExistingLabels) > 0 {
		existing = strings.Join(sctx.ExistingLabels, ", ")
	}
	prompt := fmt.Sprintf(`You are a form builder AI assistant. Suggest 3-5 relevant fields for a form based on its context.

Form Title: %s
Form Description: %s
Existing Fields: %s

Return ONLY valid JSON array (no markdown, no code blocks):
[
  {
    "type": "text|email|number|tel|textarea|select|radio|checkbox|date",
    "label": "Field Label",
    "placeholder": "Placeholder text",
    "required": false
  }
]`, sctx.FormTitle, sctx.FormDescription, existing)

	text, err := requestCompletion(cfg, prompt)
	if err != nil {
		log.Printf("AI completion unavailable, using fallback suggestions: %v", err)
		return normalizeFieldDrafts(FallbackSuggestions())
	}

	var suggestions []FieldDraft
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &suggestions); err != nil || len(suggestions) == 0 {
		log.Printf("AI reply unparsable, using fallback suggestions")
		return normalizeFieldDrafts(FallbackSuggestions())
	}

	return normalizeFieldDrafts(suggestions)
}

// requestCompletion performs one request/response round trip against the
// completion capability. No retry, no explicit timeout: a hung request
// blocks until the transport errors.
func requestCompletion(cfg *config.Config, prompt string) (string, error) {
	if cfg.OpenAIAPIKey == "" {
		return "", fmt.Errorf("no API credential configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: cfg.OpenAIModel,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that outputs only valid JSON when asked."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, openAIEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.OpenAIAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion HTTP %d: %s", resp.StatusCode, string(errText))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// stripCodeFences removes an optional markdown code fence wrapper,
// optionally tagged "json", from the reply text.
func stripCodeFences(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```json") {
		clean = clean[len("```json"):]
	} else if strings.HasPrefix(clean, "```") {
		clean = clean[len("```"):]
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// extractJSONObject returns the outermost {...} substring, or "" when the
// text contains no object-shaped payload.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// normalizeFieldDrafts assigns fresh draft ids and sequential order indexes
// to generated fields; nothing is persisted here.
func normalizeFieldDrafts(fields []FieldDraft) []FieldDraft {
	draft := FormDraft{Steps: []StepDraft{{Fields: fields}}}
	draft.Normalize()
	return draft.Steps[0].Fields
}
