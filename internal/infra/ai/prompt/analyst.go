package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/growtheory/reportcard/internal/domain/signals"
)

// AnalystSystemPrompt fixes the shape of the analyst write-up. The fenced
// metadata block and the "Analyzing ..."/"Overall Assessment" phrases are what
// the response parser keys on, so the instructions spell them out explicitly.
func AnalystSystemPrompt() string {
	return `You are a company intelligence analyst helping job seekers and investors decide whether a company is a good bet.

When asked about a company, produce a report card with EXACTLY this structure:

1. Start with a fenced metadata block:

` + "```json" + `
{
  "official_name": "<official SEC/legal company name>",
  "ticker": "<UPPERCASE ticker, or PRIVATE for private companies>",
  "score": <integer 0-100, overall health score>,
  "grade": "<letter grade: A+, A, A-, B+, B, B-, C+, C, C-, or D>",
  "financial_data": {
    "revenue": <annual revenue in USD or null>,
    "market_cap": <market capitalization in USD or null>,
    "profit_margin": <profit margin as a fraction or null>,
    "employees": <full-time employee count or null>
  }
}
` + "```" + `

2. After the block, write the narrative. Open it with the line
   "Analyzing <official name> (<ticker or Not Publicly Traded>)".
3. Interpret the financial health signals and explain what they mean for job seekers.
4. Be honest about risks but also highlight opportunities.
5. End with a line "Overall Assessment: <N>/10".

If you cannot identify the company with reasonable confidence, reply with a single sentence stating that you could not identify the company. Do not invent data for companies you do not recognize.`
}

// AnalystUserPrompt embeds the gathered provider signals so the model grades
// against real data instead of recalling stale numbers.
func AnalystUserPrompt(officialName string, bundle *signals.Bundle) string {
	if bundle == nil || (bundle.Market == nil && bundle.News == nil && bundle.Economy == nil) {
		return fmt.Sprintf("Analyze %s for job seekers.", officialName)
	}
	ctx, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Sprintf("Analyze %s for job seekers.", officialName)
	}
	return fmt.Sprintf(`Analyze %s for job seekers.

Current market, news and economic signals (status %q; treat missing sections as unavailable rather than negative):

%s`, officialName, bundle.Status, ctx)
}

// ResolverSystemPrompt pins the resolver to bare JSON output.
func ResolverSystemPrompt() string {
	return "You are a precise company identifier. Return only valid JSON."
}

// ResolverUserPrompt asks for a structured identification of free-text input,
// tolerant of typos and informal names.
func ResolverUserPrompt(input string) string {
	return fmt.Sprintf(`You are a company identifier. Identify the actual company from this input: %q

Return ONLY a valid JSON object with this exact structure (no other text, no markdown):
{
  "status": "found" or "not_found",
  "official_name": "Official Company Name",
  "ticker": "TICKER" or "PRIVATE" or null,
  "confidence": "high" or "low"
}

Rules:
- For publicly traded US companies, provide the stock ticker symbol in UPPERCASE
- For private companies or non-profits, set ticker to "PRIVATE"
- If you cannot identify the company with reasonable confidence, set status to "not_found"
- Be generous with typos and abbreviations - if 70%%+ confident, mark as "found"
- Use official SEC/legal company names when possible

Examples:
- "Gogle" or "Google" -> {"status": "found", "official_name": "Alphabet Inc.", "ticker": "GOOGL", "confidence": "high"}
- "Msft" or "Microsoft" -> {"status": "found", "official_name": "Microsoft Corporation", "ticker": "MSFT", "confidence": "high"}
- "Boston Consulting" -> {"status": "found", "official_name": "Boston Consulting Group", "ticker": "PRIVATE", "confidence": "high"}
- "xyzabc123" -> {"status": "not_found", "official_name": null, "ticker": null, "confidence": null}

Return ONLY the JSON object, nothing else.`, input)
}
