// Package gemini translates the Google Gemini streamGenerateContent event
// stream (alt=sse).
//
// Each SSE record carries a complete GenerateContentResponse, decoded with
// the google.golang.org/genai types. Function calls arrive whole, one part
// each, and are finalized when the response finishes.
package gemini

import (
	"github.com/fwojciec/norm"
	"google.golang.org/genai"
)

// Name is the grammar name.
const Name = "gemini"

// FinishReasons maps Gemini finish reasons.
var FinishReasons = norm.FinishReasonTable{
	string(genai.FinishReasonStop):                   norm.FinishStop,
	string(genai.FinishReasonMaxTokens):              norm.FinishLength,
	string(genai.FinishReasonSafety):                 norm.FinishContentFilter,
	string(genai.FinishReasonRecitation):             norm.FinishContentFilter,
	string(genai.FinishReasonBlocklist):              norm.FinishContentFilter,
	string(genai.FinishReasonProhibitedContent):      norm.FinishContentFilter,
	string(genai.FinishReasonSPII):                   norm.FinishContentFilter,
	string(genai.FinishReasonImageSafety):            norm.FinishContentFilter,
	string(genai.FinishReasonImageProhibitedContent): norm.FinishContentFilter,
	string(genai.FinishReasonLanguage):               norm.FinishOther,
	string(genai.FinishReasonMalformedFunctionCall):  norm.FinishOther,
	string(genai.FinishReasonOther):                  norm.FinishOther,
}

// Grammar returns the Gemini grammar.
func Grammar() norm.Grammar {
	return norm.Grammar{
		Name:           Name,
		Framing:        norm.FramingSSE,
		ToolCalls:      norm.EmitAtFinish,
		ArgumentErrors: norm.ArgumentErrorReport,
		FinishReasons:  FinishReasons,
		NewTranslator:  func() norm.Translator { return NewTranslator() },
	}
}
