package services

import (
	"strings"

	"formflow_app_go/models"
)

// The deterministic fallback generator keyword-matches the lower-cased
// prompt against a fixed ordered set of domain phrases and returns one of a
// small number of hand-authored structures. It is pure and total: the same
// prompt always yields the same structure and no prompt ever fails.

// FallbackForm returns a canned whole-form draft for the prompt
func FallbackForm(prompt string) *FormDraft {
	p := strings.ToLower(prompt)

	if strings.Contains(p, "blood") && strings.Contains(p, "donation") {
		return &FormDraft{
			Title:       "Blood Donation Form",
			Description: "Collect donor details and medical screening information.",
			Steps: []StepDraft{
				{
					Title:       "Donor Information",
					Description: "Basic contact details",
					Fields: []FieldDraft{
						{Type: models.FieldTypeText, Label: "Full Name", Placeholder: "Enter your full name", Required: true},
						{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "you@example.com", Required: true},
						{Type: models.FieldTypeTel, Label: "Phone Number", Placeholder: "+1 (555) 000-0000", Required: true},
						{Type: models.FieldTypeDate, Label: "Date of Birth", Required: true},
					},
				},
				{
					Title:       "Eligibility",
					Description: "Medical screening",
					Fields: []FieldDraft{
						{Type: models.FieldTypeSelect, Label: "Blood Type", Options: []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}, Required: true},
						{Type: models.FieldTypeCheckbox, Label: "I am not currently ill", Required: true},
						{Type: models.FieldTypeCheckbox, Label: "I have not donated blood in the last 3 months", Required: true},
						{Type: models.FieldTypeTextarea, Label: "Medical Conditions", Placeholder: "List any relevant conditions", Required: false},
					},
				},
				{
					Title:       "Consent",
					Description: "Review and agree",
					Fields: []FieldDraft{
						{Type: models.FieldTypeCheckbox, Label: "I consent to donate blood", Required: true},
						{Type: models.FieldTypeTextarea, Label: "Additional Notes", Placeholder: "Anything else we should know?", Required: false},
					},
				},
			},
		}
	}

	if strings.Contains(p, "contact") || strings.Contains(p, "registration") || strings.Contains(p, "signup") {
		return &FormDraft{
			Title:       "Registration Form",
			Description: "Basic details to get started",
			Steps: []StepDraft{
				{
					Title: "Details",
					Fields: []FieldDraft{
						{Type: models.FieldTypeText, Label: "Name", Placeholder: "Your full name", Required: true},
						{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "you@example.com", Required: true},
						{Type: models.FieldTypeTel, Label: "Phone", Placeholder: "+1 (555) 000-0000", Required: false},
					},
				},
			},
		}
	}

	return &FormDraft{
		Title:       "Custom Form",
		Description: "Generated from your prompt",
		Steps: []StepDraft{
			{
				Title: "Step 1",
				Fields: []FieldDraft{
					{Type: models.FieldTypeText, Label: "Name", Placeholder: "Enter your name", Required: true},
					{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "you@example.com", Required: true},
					{Type: models.FieldTypeTextarea, Label: "Notes", Placeholder: "Add more details", Required: false},
				},
			},
		},
	}
}

// FallbackFields returns a canned field set for the prompt
func FallbackFields(prompt string) []FieldDraft {
	p := strings.ToLower(prompt)

	switch {
	case strings.Contains(p, "contact") || strings.Contains(p, "email"):
		return []FieldDraft{
			{Type: models.FieldTypeText, Label: "Full Name", Placeholder: "Enter your full name", Required: true},
			{Type: models.FieldTypeEmail, Label: "Email Address", Placeholder: "your@email.com", Required: true},
			{Type: models.FieldTypeTel, Label: "Phone Number", Placeholder: "+1 (555) 000-0000", Required: false},
		}
	case strings.Contains(p, "survey") || strings.Contains(p, "feedback"):
		return []FieldDraft{
			{Type: models.FieldTypeText, Label: "Name", Placeholder: "Your name", Required: true},
			{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "your@email.com", Required: true},
			{Type: models.FieldTypeSelect, Label: "Rating", Options: []string{"Excellent", "Good", "Average", "Poor"}, Required: true},
			{Type: models.FieldTypeTextarea, Label: "Comments", Placeholder: "Share your feedback...", Required: false},
		}
	case strings.Contains(p, "registration") || strings.Contains(p, "signup"):
		return []FieldDraft{
			{Type: models.FieldTypeText, Label: "Full Name", Placeholder: "Enter your full name", Required: true},
			{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "your@email.com", Required: true},
			{Type: models.FieldTypeTel, Label: "Phone", Placeholder: "+1 (555) 000-0000", Required: false},
			{Type: models.FieldTypeDate, Label: "Date of Birth", Required: false},
		}
	default:
		return []FieldDraft{
			{Type: models.FieldTypeText, Label: "Name", Placeholder: "Enter your name", Required: true},
			{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "your@email.com", Required: true},
			{Type: models.FieldTypeTextarea, Label: "Message", Placeholder: "Enter your message", Required: false},
		}
	}
}

// FallbackSuggestions returns the fixed generic suggestion set
func FallbackSuggestions() []FieldDraft {
	return []FieldDraft{
		{Type: models.FieldTypeText, Label: "Additional Info", Placeholder: "Enter details", Required: false},
		{Type: models.FieldTypeSelect, Label: "Category", Options: []string{"Option 1", "Option 2", "Option 3"}, Required: false},
		{Type: models.FieldTypeDate, Label: "Date", Placeholder: "Select date", Required: false},
	}
}
