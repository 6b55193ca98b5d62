package game

import (
	"fmt"
	"strings"
)

// GenerationSystemPrompt is the role instruction sent with every
// generation request.
const GenerationSystemPrompt = `You are an expert instructional designer who turns lesson material into engaging quiz games for classrooms. You write clear, age-appropriate questions that test the stated learning objective, never trivia unrelated to the material.

Output rules:
- Respond with a single JSON object matching the provided schema. No prose, no markdown, no code fences.
- Every question must be answerable from the supplied material alone.
- Wrong options must be plausible misconceptions, not jokes or throwaways.`

// continuesMarker separates sampled zones when content is truncated.
// It matches the marker the content preprocessor inserts so the model
// understands the gaps are intentional.
const continuesMarker = "[... content continues ...]"

// BuildGenerationPrompt assembles the user prompt for one generation
// attempt from the request options and the already-preprocessed content.
func BuildGenerationPrompt(opts GenerationOptions, content string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Create a quiz game with exactly %d multiple choice questions from the lesson material below.\n\n", QuestionCount))

	sb.WriteString(fmt.Sprintf("Learning objective: %s\n", opts.Objective))
	sb.WriteString(fmt.Sprintf("Target skill level: %s. Questions should emphasize %s.\n\n", opts.Taxonomy, taxonomyGuidance[opts.Taxonomy]))

	if opts.Mode == ModeEngine {
		sb.WriteString("This game runs in an adventure engine. Give it an imaginative title, a one-sentence premise, and a theme that frames the questions as challenges in a story world.\n")
		if opts.PreferredGenre != "" {
			sb.WriteString(fmt.Sprintf("Preferred theme: %s.\n", opts.PreferredGenre))
		}
	} else {
		sb.WriteString("This is a straightforward classroom quiz. Keep the title and description plain and descriptive, and pick whichever theme best fits the subject.\n")
	}
	sb.WriteString(fmt.Sprintf("Theme must be one of: %s.\n\n", themeList()))

	if len(opts.MechanicsToInclude) > 0 {
		sb.WriteString(fmt.Sprintf("Lean into these question styles: %s.\n", strings.Join(opts.MechanicsToInclude, ", ")))
	}
	if len(opts.MechanicsToAvoid) > 0 {
		sb.WriteString(fmt.Sprintf("Avoid these question styles: %s.\n", strings.Join(opts.MechanicsToAvoid, ", ")))
	}

	sb.WriteString("\nRequirements:\n")
	sb.WriteString(fmt.Sprintf("- Exactly %d questions, each with exactly %d options and a 0-based correctIndex\n", QuestionCount, OptionCount))
	sb.WriteString("- Each question names the concept it tests and explains the correct answer\n")
	sb.WriteString("- Where a wrong option reflects a common misconception, name that misconception\n")
	sb.WriteString(fmt.Sprintf("- Sections of the material may be elided with %q markers; do not ask about elided sections\n", continuesMarker))
	sb.WriteString("- Output only the JSON object, nothing else\n")

	sb.WriteString("\nLesson material:\n")
	sb.WriteString(content)

	return sb.String()
}

func themeList() string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ResponseSchema is the strict output schema sent with every generation
// request so the provider's structured-output mode constrains the reply.
// It is not a substitute for local validation.
func ResponseSchema() map[string]any {
	themes := make([]any, len(Themes))
	for i, t := range Themes {
		themes[i] = string(t)
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short game title shown to players",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "One-sentence description or premise",
			},
			"theme": map[string]any{
				"type": "string",
				"enum": themes,
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short identifier, unique within the game",
						},
						"prompt": map[string]any{
							"type": "string",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correctIndex": map[string]any{
							"type":        "integer",
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is right",
						},
						"concept": map[string]any{
							"type":        "string",
							"description": "The concept this question tests",
						},
						"misconception": map[string]any{
							"type":        "string",
							"description": "Common misconception reflected by a wrong option, if any",
						},
					},
					"required": []any{"id", "prompt", "options", "correctIndex", "explanation", "concept"},
				},
				"description": fmt.Sprintf("Exactly %d questions", QuestionCount),
			},
		},
		"required": []any{"title", "description", "theme", "questions"},
	}
}
