// Package form turns raw form-field metadata from a web page into answered
// fields in two model calls: one to normalize the fields into questions,
// one to answer the questions from the user's profile.
package form

// Field is a form field as scraped by the caller. The metadata is passed
// through into the structuring prompt untouched.
type Field struct {
	Type               string          `json:"type"`
	Label              string          `json:"label"`
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Position           int             `json:"position"`
	PositionPath       string          `json:"positionPath,omitempty"`
	SurroundingContext string          `json:"surroundingContext,omitempty"`
	PossibleValues     []PossibleValue `json:"possibleValues,omitempty"`
}

// PossibleValue is one candidate option for a select-like field.
type PossibleValue struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// StructuredField is the normalized question form of a Field. The pipeline
// preserves order: structured[i] corresponds to fields[i].
type StructuredField struct {
	Question        string   `json:"question"`
	PossibleAnswers []string `json:"possible_answers"`
	HTMLID          string   `json:"html_id"`
}

// Answer pairs a field id with the chosen answer text. The id comes back
// from the model and is not re-validated against the input fields.
type Answer struct {
	HTMLID string `json:"html_id"`
	Answer string `json:"answer"`
}
