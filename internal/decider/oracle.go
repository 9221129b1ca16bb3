package decider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/oracle"
)

// oracleResponse is the strict JSON contract the prompt demands.
type oracleResponse struct {
	Category string `json:"category"`
	Thought  string `json:"thought"`
	Memory   string `json:"memory"`
}

// OracleDecider delegates to an external decision service and falls back to
// DeterministicDecider on timeout, malformed output, or an unknown category
// — it must never block the simulation.
type OracleDecider struct {
	Client   *oracle.Client
	Timeout  time.Duration
	Fallback DeterministicDecider
}

func (d OracleDecider) Decide(ctx Context) Decision {
	if d.Client == nil || !d.Client.Enabled() {
		return d.Fallback.Decide(ctx)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	system := buildSystemPrompt()
	user := buildUserPrompt(ctx)

	raw, err := d.Client.Complete(reqCtx, system, user, 200)
	if err != nil {
		return d.Fallback.Decide(ctx)
	}

	decision, ok := parseOracleResponse(raw)
	if !ok {
		return d.Fallback.Decide(ctx)
	}
	return decision
}

func buildSystemPrompt() string {
	return `You are deciding where a city resident goes next.
Respond ONLY with a JSON object: {"category": "...", "thought": "...", "memory": "..."}.
category must be exactly one of: grocery, pharmacy, cafe, restaurant, transit, education, health, retail, other.
thought is a one-sentence first-person rationale. memory is a short third-person log line.`
}

func buildUserPrompt(ctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Persona: %s (%s). Time of day: %s.\n", ctx.Persona, ctx.Role, ctx.TimeOfDay)

	if len(ctx.Top3Needs) > 0 {
		b.WriteString("Top needs: ")
		for i, cat := range ctx.Top3Needs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(string(cat))
		}
		b.WriteString("\n")
	}

	if len(ctx.MemoryTail) > 0 {
		b.WriteString("Recent memory:\n")
		for _, m := range ctx.MemoryTail {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	if len(ctx.Biases) > 0 {
		b.WriteString("Neighborhood biases: ")
		first := true
		for _, cat := range gridasset.Categories {
			if w, ok := ctx.Biases[cat]; ok {
				if !first {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s=%.2f", cat, w)
				first = false
			}
		}
		b.WriteString("\n")
	}

	if ctx.Meeting {
		b.WriteString("You have a meeting scheduled soon.\n")
	}

	b.WriteString("Where do you go? Respond with the JSON object only.")
	return b.String()
}

// parseOracleResponse extracts the first JSON object in response, validates
// it against the known category set, and reports whether it succeeded.
func parseOracleResponse(response string) (Decision, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return Decision{}, false
	}

	var parsed oracleResponse
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return Decision{}, false
	}

	cat := gridasset.Category(parsed.Category)
	if !gridasset.ValidCategory(cat) {
		return Decision{}, false
	}

	return Decision{Category: cat, Thought: parsed.Thought, Memory: parsed.Memory}, true
}
