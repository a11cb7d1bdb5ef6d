package classifier

// Model label recorded when the pattern fallback produced the result.
const PatternModelName = "pattern-fallback"

// Generation settings for the AI classification path.
const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 768
)

// System prompt for the AI path. The model must answer with bare JSON;
// the parser strips markdown fences defensively anyway.
const classifySystemPrompt = `You are the intent classifier for a financial planning product.
Given a user's question, respond with ONLY a JSON object, no prose:

{
  "intent": "<one of the allowed intents>",
  "confidence": <number between 0 and 1>,
  "slots": {
    "<slot_name>": {
      "raw_value": "<text as written>",
      "normalized_value": <number>,
      "currency": "<USD|INR|''>",
      "confidence": <number between 0 and 1>,
      "unit": "<currency|months|percent|count>"
    }
  }
}

Allowed slot names: cash, burn_rate, runway_months, revenue_growth,
base_revenue, horizon_months, hire_count, annual_salary.
Omit slots you cannot ground in the question. Never invent figures.`
