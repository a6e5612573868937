package form

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dei-labs/voicebridge/internal/jsonx"
	"github.com/dei-labs/voicebridge/pkg/inference"
)

const (
	// stageTemperature is low but non-zero. A little flexibility in
	// phrasing helps the model reword awkward labels into questions.
	stageTemperature = 0.2

	maxStageTokens = 2048
)

const structurePrompt = `You are given the fields of a web form. For each field, produce one JSON object with:
- "question": the field rephrased as a plain question to the user
- "possible_answers": the field's candidate values as strings, or [] if free text
- "html_id": the field's id, copied exactly

Respond with ONLY a JSON array containing exactly one object per field, in the same order as the fields below.

Fields:
%s`

const answerPrompt = `You are filling out a web form on behalf of a user. Here is everything known about the user:

%s

For each question below, answer on the user's behalf. When possible answers are listed, pick the best matching one exactly as written. Otherwise answer briefly in free text from what you know about the user.

Respond with ONLY a JSON array of objects shaped {"html_id": "...", "answer": "..."}, one per question, in the same order.

Questions:
%s`

// Pipeline runs the two-stage structure-then-answer form flow.
type Pipeline struct {
	llm    inference.Provider
	logger *slog.Logger
}

// NewPipeline creates a pipeline backed by llm.
func NewPipeline(llm inference.Provider) *Pipeline {
	return &Pipeline{
		llm:    llm,
		logger: slog.Default().With("component", "form.pipeline"),
	}
}

// Structure normalizes raw fields into ordered questions. Any parse failure
// returns an empty slice; the caller treats that as a pipeline failure.
func (p *Pipeline) Structure(ctx context.Context, fields []Field) ([]StructuredField, error) {
	reply, err := p.complete(ctx, fmt.Sprintf(structurePrompt, describeFields(fields)))
	if err != nil {
		return nil, err
	}

	structured := parseStructured(reply)
	if len(structured) == 0 {
		p.logger.Warn("structure stage produced no fields", "input_fields", len(fields))
	}
	return structured, nil
}

// Answer fills every structured field from the user's profile text. Same
// empty-on-parse-failure policy as Structure.
func (p *Pipeline) Answer(ctx context.Context, structured []StructuredField, userData string) ([]Answer, error) {
	reply, err := p.complete(ctx, fmt.Sprintf(answerPrompt, userData, describeQuestions(structured)))
	if err != nil {
		return nil, err
	}

	raw := jsonx.ExtractArray(reply)
	if raw == "" {
		return nil, nil
	}
	var answers []Answer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		p.logger.Debug("answer stage parse failed", "error", err)
		return nil, nil
	}
	return answers, nil
}

func (p *Pipeline) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.llm.Chat(ctx, &inference.ChatRequest{
		Messages:    []inference.Message{inference.NewUserMessage(prompt)},
		Temperature: stageTemperature,
		MaxTokens:   maxStageTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// parseStructured accepts either a bare array or an object wrapping it in
// a form_structure field. Anything else parses to nil.
func parseStructured(reply string) []StructuredField {
	if raw := jsonx.ExtractArray(reply); raw != "" {
		var structured []StructuredField
		if err := json.Unmarshal([]byte(raw), &structured); err == nil {
			return structured
		}
	}

	if raw := jsonx.ExtractObject(reply); raw != "" {
		var wrapped struct {
			FormStructure []StructuredField `json:"form_structure"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err == nil {
			return wrapped.FormStructure
		}
	}
	return nil
}

// describeFields renders every field's metadata as one numbered block.
func describeFields(fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		fmt.Fprintf(&b, "%d. type=%s label=%q id=%q name=%q position=%d", i+1, f.Type, f.Label, f.ID, f.Name, f.Position)
		if f.PositionPath != "" {
			fmt.Fprintf(&b, " path=%q", f.PositionPath)
		}
		if f.SurroundingContext != "" {
			fmt.Fprintf(&b, " context=%q", f.SurroundingContext)
		}
		if len(f.PossibleValues) > 0 {
			b.WriteString(" values=[")
			for j, v := range f.PossibleValues {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%q", v.Text)
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeQuestions(structured []StructuredField) string {
	var b strings.Builder
	for i, s := range structured {
		fmt.Fprintf(&b, "%d. html_id=%q question=%q", i+1, s.HTMLID, s.Question)
		if len(s.PossibleAnswers) > 0 {
			fmt.Fprintf(&b, " possible_answers=%q", s.PossibleAnswers)
		}
		b.WriteString("\n")
	}
	return b.String()
}
