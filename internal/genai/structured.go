package genai

import (
	"context"
	"encoding/json"
	"fmt"

	"estateagent/internal/utils"
)

// Outcome is the result of a structured generation call. Value always carries
// the full field set of the default template; Fallback reports whether the
// defaults were returned because the service failed or replied unparseably.
type Outcome[T any] struct {
	Value    T
	Fallback bool
}

// GenerateStructured asks the generator for a JSON reply shaped like defaults
// and merges whatever parses onto a copy of defaults: parsed fields override,
// absent fields keep their default, unknown fields are dropped. It never
// returns an error; every failure path degrades to the defaults, exactly once.
func GenerateStructured[T any](ctx context.Context, g Generator, prompt string, defaults T) Outcome[T] {
	fallback := Outcome[T]{Value: defaults, Fallback: true}

	if g == nil {
		return fallback
	}

	template, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return fallback
	}

	enhanced := fmt.Sprintf(`%s

IMPORTANT: Respond ONLY with valid JSON. No additional text or explanation.
Use this exact structure format:
%s`, prompt, template)

	reply, err := g.Generate(ctx, enhanced)
	if err != nil {
		return fallback
	}

	merged := defaults
	if err := utils.ParseModelJSON(reply, &merged); err != nil {
		return fallback
	}

	return Outcome[T]{Value: merged}
}
