package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"formflow_app_go/config"

	"github.com/stretchr/testify/assert"
)

// stubCompletion serves a canned chat-completion reply and restores the real
// endpoint afterwards.
func stubCompletion(t *testing.T, status int, content string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		reply := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	previous := openAIEndpoint
	openAIEndpoint = server.URL
	t.Cleanup(func() {
		openAIEndpoint = previous
		server.Close()
	})
}

func testAIConfig() *config.Config {
	return &config.Config{OpenAIAPIKey: "test-key", OpenAIModel: "gpt-4o-mini"}
}

func TestGenerateFormFromCompletion(t *testing.T) {
	reply := "```json\n" + `{
		"title": "Pet Adoption",
		"description": "Adopt a pet",
		"steps": [
			{"title": "About You", "fields": [
				{"type": "text", "label": "Name", "required": true},
				{"type": "email", "label": "Email", "required": true}
			]}
		]
	}` + "\n```"
	stubCompletion(t, http.StatusOK, reply)

	draft, err := GenerateForm(testAIConfig(), "pet adoption form")
	assert.NoError(t, err)
	assert.Equal(t, "Pet Adoption", draft.Title)
	assert.Len(t, draft.Steps, 1)
	assert.Len(t, draft.Steps[0].Fields, 2)
	// Normalization assigns local ids and dense order indexes
	assert.NotEmpty(t, draft.Steps[0].ID)
	assert.Equal(t, 0, draft.Steps[0].Fields[0].OrderIndex)
	assert.Equal(t, 1, draft.Steps[0].Fields[1].OrderIndex)
}

func TestGenerateFormMissingCredentialFallsBack(t *testing.T) {
	draft, err := GenerateForm(&config.Config{}, "blood donation drive")
	assert.NoError(t, err)
	assert.Equal(t, "Blood Donation Form", draft.Title)
}

func TestGenerateFormTransportErrorFallsBack(t *testing.T) {
	stubCompletion(t, http.StatusInternalServerError, "")

	draft, err := GenerateForm(testAIConfig(), "blood donation drive")
	assert.NoError(t, err)
	assert.Equal(t, "Blood Donation Form", draft.Title)
	assert.Len(t, draft.Steps, 3)
	assert.Len(t, draft.Steps[0].Fields, 4)
	assert.Len(t, draft.Steps[1].Fields, 4)
	assert.Len(t, draft.Steps[2].Fields, 2)
}

func TestGenerateFormUnparsableReplyIsAnError(t *testing.T) {
	// A reachable backend returning garbage is NOT absorbed: the caller must
	// see the parse failure rather than a silently substituted fallback.
	stubCompletion(t, http.StatusOK, "Sorry, I cannot help with that.")

	draft, err := GenerateForm(testAIConfig(), "blood donation drive")
	assert.Nil(t, draft)
	assert.EqualError(t, err, "failed to parse AI response")
}

func TestGenerateFieldSuggestionsAbsorbsBadReply(t *testing.T) {
	stubCompletion(t, http.StatusOK, "not json at all")

	fields := GenerateFieldSuggestions(testAIConfig(), "customer survey")
	assert.NotEmpty(t, fields)
	// Survey fallback set
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	assert.Contains(t, labels, "Rating")
}

func TestGenerateFieldSuggestionsFromCompletion(t *testing.T) {
	stubCompletion(t, http.StatusOK, `{"fields":[{"type":"text","label":"Company","required":false}]}`)

	fields := GenerateFieldSuggestions(testAIConfig(), "b2b lead form")
	assert.Len(t, fields, 1)
	assert.Equal(t, "Company", fields[0].Label)
	assert.NotEmpty(t, fields[0].ID)
}

func TestSuggestFieldsAbsorbsTransportError(t *testing.T) {
	stubCompletion(t, http.StatusBadGateway, "")

	fields := SuggestFields(testAIConfig(), SuggestionContext{FormTitle: "Anything"})
	assert.Len(t, fields, 3)
	assert.Equal(t, "Additional Info", fields[0].Label)
}

func TestFallbackFormDeterminism(t *testing.T) {
	a := FallbackForm("Blood Donation drive signup")
	b := FallbackForm("Blood Donation drive signup")
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	assert.JSONEq(t, string(aJSON), string(bJSON))

	generic := FallbackForm("inventory tracker")
	assert.Equal(t, "Custom Form", generic.Title)

	registration := FallbackForm("event signup sheet")
	assert.Equal(t, "Registration Form", registration.Title)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONObject(`Here you go: {"a":1} enjoy`))
	assert.Equal(t, "", extractJSONObject("no object here"))
	assert.Equal(t, "", extractJSONObject("} backwards {"))
}
