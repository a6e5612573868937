package tools

import (
	"fmt"
	"strings"
)

// Prompt templates for the model-backed tools. Every prompt pins the
// output contract to bare JSON so replies can be parsed without prose
// stripping in the common case; jsonx handles models that wrap the JSON
// anyway.

const routerSystemPrompt = `You are a tool selector for a voice-controlled browser assistant.
Given the user's spoken transcript, pick exactly one tool from the list below.

Available tools:
%s
Respond with ONLY a JSON object of the form {"tool": "<name>"}.
No explanation, no markdown, no extra keys.`

// RouterPrompt enumerates every registered tool for the selection call.
func RouterPrompt() string {
	var b strings.Builder
	for _, d := range Registry {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)
	}
	return fmt.Sprintf(routerSystemPrompt, b.String())
}

const findPrompt = `You extract the key information a user is asking about.
Read the transcript below and identify the essential facts it requests or contains.

Transcript:
%s

Respond with ONLY valid JSON: {"key_information": "<the key information as plain text>"}`

const extractEntitiesPrompt = `You extract named entities from text.
Read the transcript below and group every entity by category
(people, organizations, places, dates, products; add categories as needed).

Transcript:
%s

Respond with ONLY valid JSON mapping category to an array of strings, for example:
{"people": ["Ada Lovelace"], "places": ["London"]}`

const analyzeSentimentPrompt = `You analyze the sentiment of text.
Read the transcript below and judge its overall emotional tone.

Transcript:
%s

Respond with ONLY valid JSON:
{"label": "positive|negative|neutral|mixed", "confidence": <0.0-1.0>, "explanation": "<one sentence>"}`

const translatePrompt = `You are a translator.
Translate the content of the transcript below into the language the user asks for.
If no target language is named, translate into English.

Transcript:
%s

Respond with ONLY valid JSON: {"translation": "<translated text>"}`

// SummaryPrompt is used by the standalone /summarize endpoint (a direct
// LLM call, unlike the summarize tool which is frontend-executed).
const SummaryPrompt = `Summarize the following text concisely in a few sentences.
Plain text only, no markdown, no preamble.

Text:
%s`

// ExplainPrompt is used by /explain for text and screenshots.
const ExplainPrompt = `You are a helpful assistant embedded in a browser.
Explain the following content clearly and simply, as if to someone hearing it read aloud.
Keep it short and conversational.`

const navigationPrompt = `You convert natural language instructions into structured browser commands.
You are given the page HTML and the user's spoken instruction.
Plan the UI actions needed to carry out the instruction.

Page HTML:
%s

Instruction:
%s

Respond with ONLY a JSON object:
{"commands": [{"type": "click|scroll|focus|navigate", "target": "<CSS selector, URL, or scroll direction>", "confidence": <0.0-1.0>, "explanation": "<why>"}]}
Use as few commands as possible. Only the four listed types are valid.`

// NavigationPrompt embeds the page HTML and the transcript.
func NavigationPrompt(htmlContent, transcript string) string {
	return fmt.Sprintf(navigationPrompt, htmlContent, transcript)
}
