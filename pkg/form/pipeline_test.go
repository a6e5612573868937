package form

import (
	"context"
	"strings"
	"testing"

	"github.com/dei-labs/voicebridge/pkg/inference"
)

var sampleFields = []Field{
	{Type: "text", Label: "First name", ID: "fname", Name: "first_name", Position: 1},
	{Type: "select", Label: "Country", ID: "country", Name: "country", Position: 2,
		PossibleValues: []PossibleValue{{Text: "France", Value: "fr"}, {Text: "Germany", Value: "de"}}},
	{Type: "text", Label: "Email", ID: "email", Name: "email", Position: 3,
		SurroundingContext: "We will never share your address."},
}

func TestStructureHappyPath(t *testing.T) {
	mock := inference.MockReply(`[
		{"question": "What is your first name?", "possible_answers": [], "html_id": "fname"},
		{"question": "Which country do you live in?", "possible_answers": ["France", "Germany"], "html_id": "country"},
		{"question": "What is your email address?", "possible_answers": [], "html_id": "email"}
	]`)
	p := NewPipeline(mock)

	structured, err := p.Structure(context.Background(), sampleFields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(structured) != len(sampleFields) {
		t.Fatalf("expected %d structured fields, got %d", len(sampleFields), len(structured))
	}
	for i, want := range []string{"fname", "country", "email"} {
		if structured[i].HTMLID != want {
			t.Errorf("field %d: expected id %q, got %q", i, want, structured[i].HTMLID)
		}
	}
	if len(structured[1].PossibleAnswers) != 2 {
		t.Errorf("expected country options preserved, got %v", structured[1].PossibleAnswers)
	}
}

func TestStructureAcceptsWrappedArray(t *testing.T) {
	mock := inference.MockReply(`{"form_structure": [{"question": "What is your first name?", "possible_answers": [], "html_id": "fname"}]}`)
	p := NewPipeline(mock)

	structured, err := p.Structure(context.Background(), sampleFields[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(structured) != 1 || structured[0].HTMLID != "fname" {
		t.Errorf("expected wrapped array parsed, got %v", structured)
	}
}

func TestStructureToleratesProse(t *testing.T) {
	mock := inference.MockReply("Here is the structure you asked for:\n```json\n[{\"question\": \"What is your first name?\", \"possible_answers\": [], \"html_id\": \"fname\"}]\n```\nLet me know if you need anything else.")
	p := NewPipeline(mock)

	structured, err := p.Structure(context.Background(), sampleFields[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(structured) != 1 {
		t.Errorf("expected prose-wrapped array parsed, got %v", structured)
	}
}

func TestStructureMalformedReply(t *testing.T) {
	for name, reply := range map[string]string{
		"prose only":     "I could not determine the form structure.",
		"broken json":    `[{"question": "incomplete`,
		"wrong shape":    `{"fields": 3}`,
		"empty response": "",
	} {
		t.Run(name, func(t *testing.T) {
			p := NewPipeline(inference.MockReply(reply))

			structured, err := p.Structure(context.Background(), sampleFields)
			if err != nil {
				t.Fatalf("parse failure must not error: %v", err)
			}
			if len(structured) != 0 {
				t.Errorf("expected empty result, got %v", structured)
			}
		})
	}
}

func TestStructureUpstreamError(t *testing.T) {
	p := NewPipeline(inference.MockError(&inference.APIError{StatusCode: 500, Message: "boom", Provider: "client"}))

	if _, err := p.Structure(context.Background(), sampleFields); err == nil {
		t.Fatal("expected upstream error surfaced")
	}
}

func TestAnswerHappyPath(t *testing.T) {
	mock := inference.MockReply(`[
		{"html_id": "fname", "answer": "Ada"},
		{"html_id": "country", "answer": "France"}
	]`)
	p := NewPipeline(mock)

	structured := []StructuredField{
		{Question: "What is your first name?", HTMLID: "fname"},
		{Question: "Which country do you live in?", PossibleAnswers: []string{"France", "Germany"}, HTMLID: "country"},
	}
	answers, err := p.Answer(context.Background(), structured, "My name is Ada and I live in Paris.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].HTMLID != "fname" || answers[0].Answer != "Ada" {
		t.Errorf("unexpected first answer: %+v", answers[0])
	}
	if answers[1].Answer != "France" {
		t.Errorf("expected option text picked, got %q", answers[1].Answer)
	}
}

func TestAnswerEmbedsProfileVerbatim(t *testing.T) {
	mock := inference.MockReply(`[{"html_id": "fname", "answer": "Ada"}]`)
	p := NewPipeline(mock)

	profile := "Name: Ada Lovelace\nCity: London\nPrefers: tea"
	if _, err := p.Answer(context.Background(), []StructuredField{{Question: "Name?", HTMLID: "fname"}}, profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Prompt, profile) {
		t.Error("expected profile text embedded unmodified in the prompt")
	}
}

func TestAnswerMalformedReply(t *testing.T) {
	p := NewPipeline(inference.MockReply("Sorry, I cannot answer these questions."))

	answers, err := p.Answer(context.Background(), []StructuredField{{Question: "Name?", HTMLID: "fname"}}, "profile")
	if err != nil {
		t.Fatalf("parse failure must not error: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("expected empty result, got %v", answers)
	}
}
