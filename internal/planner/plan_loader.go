package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type NamedPlan struct {
	Name string
	Plan *Plan
}

/*
LoadPlansFromFile loads one or many pre-authored plans from a JSON file and
always returns a slice. Accepted shapes:

 1. Multi-plan object:
    { "plans": [ { "name": "sweep", "reasoning": "...", "tasks": [...] }, ... ] }

 2. Bare array of plans:
    [ { "name": "sweep", "tasks": [...] }, { "tasks": [...] } ]

 3. Single plan:
    { "reasoning": "...", "safetyChecks": [...], "tasks": [...] }

Unnamed plans are auto-named "manual:<base>#<index>".
*/
func LoadPlansFromFile(path string) ([]NamedPlan, error) {
	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err != nil {
		return nil, fmt.Errorf("plans file not found: %s", clean)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	return ParsePlans(data, filepath.Base(clean))
}

// ParsePlans decodes the formats accepted by LoadPlansFromFile.
func ParsePlans(data []byte, base string) ([]NamedPlan, error) {
	var obj struct {
		Plans []json.RawMessage `json:"plans"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && len(obj.Plans) > 0 {
		return parsePlanList(obj.Plans, base)
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
		return parsePlanList(arr, base)
	}

	if np, ok := parseOneNamedPlan(data); ok {
		if np.Name == "" {
			np.Name = "manual:" + base
		}
		return []NamedPlan{np}, nil
	}

	return nil, fmt.Errorf("unrecognized plans format in %s", base)
}

func parsePlanList(items []json.RawMessage, base string) ([]NamedPlan, error) {
	out := make([]NamedPlan, 0, len(items))
	for i, raw := range items {
		np, ok := parseOneNamedPlan(raw)
		if !ok {
			return nil, fmt.Errorf("could not parse plan #%d", i+1)
		}
		if np.Name == "" {
			np.Name = fmt.Sprintf("manual:%s#%d", base, i+1)
		}
		out = append(out, np)
	}
	return out, nil
}

// parseOneNamedPlan accepts {"name": "...", "tasks": [...], ...}; name is optional.
func parseOneNamedPlan(raw json.RawMessage) (NamedPlan, bool) {
	var wrap struct {
		Name string `json:"name"`
		Plan
	}
	if err := json.Unmarshal(raw, &wrap); err != nil || len(wrap.Tasks) == 0 {
		return NamedPlan{}, false
	}
	p := wrap.Plan
	p.normalize()
	return NamedPlan{Name: strings.TrimSpace(wrap.Name), Plan: &p}, true
}

// SelectPlansByNames returns plans matching the given names (case-insensitive), in the requested order.
func SelectPlansByNames(plans []NamedPlan, names []string) ([]NamedPlan, []string) {
	if len(names) == 0 {
		return plans, nil
	}

	var selected []NamedPlan
	var missing []string

	for _, want := range names {
		w := strings.TrimSpace(want)
		if w == "" {
			continue
		}

		found := false
		for i := range plans {
			if strings.EqualFold(plans[i].Name, w) {
				selected = append(selected, plans[i])
				found = true
				break
			}
		}

		if !found {
			missing = append(missing, want)
		}
	}

	return selected, missing
}
