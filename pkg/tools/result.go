package tools

// Result is the outcome of dispatching one tool. It is a tagged union:
// exactly one payload group is populated, discriminated by which fields
// are non-zero. A model reply that fails to parse degrades to RawText
// with ParsingError set instead of failing the dispatch.
type Result struct {
	// Tool is the name the result belongs to.
	Tool string `json:"tool"`

	// Status is "initiated" for frontend-executed tools.
	Status string `json:"status,omitempty"`

	// KeyInformation is set by the find tool.
	KeyInformation string `json:"key_information,omitempty"`

	// Entities maps category to mentions, set by extract_entities.
	Entities map[string][]string `json:"entities,omitempty"`

	// Sentiment is set by analyze_sentiment.
	Sentiment *Sentiment `json:"sentiment,omitempty"`

	// Translation is set by translate.
	Translation string `json:"translation,omitempty"`

	// RawText carries the unparsed model reply when ParsingError is set.
	RawText      string `json:"raw_text,omitempty"`
	ParsingError bool   `json:"parsing_error,omitempty"`

	// Error is set for unknown tools and upstream failures. Dispatch
	// itself never returns a Go error for these; the failure travels
	// inside the payload.
	Error string `json:"error,omitempty"`
}

// Sentiment is the analyze_sentiment payload.
type Sentiment struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// StatusInitiated marks work delegated to the frontend.
const StatusInitiated = "initiated"

// initiatedResult builds the deferred-status result for frontend tools.
func initiatedResult(tool string) *Result {
	return &Result{Tool: tool, Status: StatusInitiated}
}

// errorResult builds an error-shaped result.
func errorResult(tool, msg string) *Result {
	return &Result{Tool: tool, Error: msg}
}

// degradedResult builds the parse-failure fallback carrying the raw reply.
func degradedResult(tool, raw string) *Result {
	return &Result{Tool: tool, RawText: raw, ParsingError: true}
}
