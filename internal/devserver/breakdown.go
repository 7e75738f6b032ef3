package devserver

import (
	"fmt"
	"strings"
)

// Step is one entry of a stored breakdown.
type Step struct {
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}

var templates = map[string]struct {
	minutes int
	phrases []string
}{
	"micro": {minutes: 5, phrases: []string{
		"Clear a small space and open everything you need for: %s",
		"Write one sentence about what done looks like for: %s",
		"List the three smallest pieces of: %s",
		"Do the first small piece for just a few minutes",
		"Take a sip of water and check what is left",
		"Do the next small piece",
		"Tidy up what you have so far",
		"Look over the result and call it finished",
	}},
	"normal": {minutes: 10, phrases: []string{
		"Gather what you need for: %s",
		"Sketch a rough plan for: %s",
		"Work through the first part of the plan",
		"Work through the remaining parts",
		"Review and fix anything that feels off",
		"Wrap up and put everything away",
	}},
	"macro": {minutes: 20, phrases: []string{
		"Plan and gather everything for: %s",
		"Do the main chunk of: %s",
		"Finish the remaining work",
		"Review, polish and wrap up",
	}},
}

// Breakdown splits task into the fixed template for granularity. Unknown
// granularities fall back to normal.
func Breakdown(task, granularity string) []Step {
	tpl, ok := templates[granularity]
	if !ok {
		tpl = templates["normal"]
	}
	steps := make([]Step, 0, len(tpl.phrases))
	for _, phrase := range tpl.phrases {
		text := phrase
		if strings.Contains(phrase, "%s") {
			text = fmt.Sprintf(phrase, task)
		}
		steps = append(steps, Step{Description: text, Minutes: tpl.minutes})
	}
	return steps
}

