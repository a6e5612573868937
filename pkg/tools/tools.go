// Package tools defines the fixed registry of transcript-processing tools
// and the dispatcher that routes a tool name plus transcript text to its
// handler.
//
// Tools come in two flavors. Model-backed tools build a deterministic
// prompt, call the LLM once, and parse the JSON it returns. Frontend tools
// ("summarize", "fill_form") only announce themselves over the push
// channel and return an initiated status; the browser extension does the
// actual work.
package tools

// Tool names in the fixed registry.
const (
	ToolSummarize        = "summarize"
	ToolFind             = "find"
	ToolExtractEntities  = "extract_entities"
	ToolAnalyzeSentiment = "analyze_sentiment"
	ToolTranslate        = "translate"
	ToolFillForm         = "fill_form"
)

// Descriptor describes a tool for the router prompt and /list-tools.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry is the fixed tool set, defined at process start and never
// mutated. Order is stable so the router prompt is deterministic.
var Registry = []Descriptor{
	{
		Name:        ToolSummarize,
		Description: "Summarize the current page or article for the user. Use when the user asks for a summary, overview, or TL;DR.",
	},
	{
		Name:        ToolFind,
		Description: "Find and extract the key information the user is asking about from the transcript or page content.",
	},
	{
		Name:        ToolExtractEntities,
		Description: "Extract named entities (people, organizations, places, dates, products) mentioned in the transcript.",
	},
	{
		Name:        ToolAnalyzeSentiment,
		Description: "Analyze the emotional tone and sentiment of the transcript or the content it refers to.",
	},
	{
		Name:        ToolTranslate,
		Description: "Translate the content into the language the user requests.",
	},
	{
		Name:        ToolFillForm,
		Description: "Fill out a form on the current page using the user's stored profile information. Use when the user asks to fill in, complete, or submit a form.",
	},
}

// Lookup returns the descriptor for name and whether it exists.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Registry {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// frontendTools are executed by the browser extension; the backend only
// emits a notification and reports the action as initiated.
var frontendTools = map[string]bool{
	ToolSummarize: true,
	ToolFillForm:  true,
}

// IsFrontendTool reports whether the named tool is executed client-side.
func IsFrontendTool(name string) bool {
	return frontendTools[name]
}
