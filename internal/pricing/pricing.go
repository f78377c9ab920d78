// Package pricing estimates API spend for a run from the token usage
// recorded on cached responses. Prices load from a yaml table keyed
// provider then model, in dollars per 1K tokens.
package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ModelPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

type Table struct {
	Providers map[string]map[string]ModelPricing
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing file: %w", err)
	}
	var providers map[string]map[string]ModelPricing
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parsing pricing file: %w", err)
	}
	return &Table{Providers: providers}, nil
}

// Cost calculates total cost for one call. Unknown provider/model pairs
// cost zero so an incomplete table degrades a cost estimate rather than
// failing analysis.
func (t *Table) Cost(provider, model string, inputTokens, outputTokens int) float64 {
	p, ok := t.lookup(provider, model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1000.0)*p.Input + (float64(outputTokens)/1000.0)*p.Output
}

// ModelCost finds a model in any provider's section. Run analysis often has
// only the model id; model names are unique across providers in practice.
func (t *Table) ModelCost(model string, inputTokens, outputTokens int) (float64, bool) {
	for provider := range t.Providers {
		if _, ok := t.Providers[provider][model]; ok {
			return t.Cost(provider, model, inputTokens, outputTokens), true
		}
	}
	return 0, false
}

func (t *Table) lookup(provider, model string) (ModelPricing, bool) {
	if t.Providers == nil {
		return ModelPricing{}, false
	}
	models, ok := t.Providers[provider]
	if !ok {
		return ModelPricing{}, false
	}
	p, ok := models[model]
	return p, ok
}
