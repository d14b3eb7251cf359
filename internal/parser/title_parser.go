package parser

import (
	"regexp"
	"strings"

	"github.com/balkashynov/duedeck/internal/models"
)

// ParsedTask represents a task parsed from quick-add text
type ParsedTask struct {
	Action   string
	Assignee string
	Category string
	DueBy    models.DueBy
	Energy   models.Energy
	Errors   []string
}

var (
	assigneeRegex = regexp.MustCompile(`(^|\s)@([\p{L}\p{N}_.-]+)`)
	categoryRegex = regexp.MustCompile(`(^|\s)#([\p{L}\p{N}_-]+)`)
	dueRegex      = regexp.MustCompile(`(^|\s)due:("[^"]*"|\S+)`)
	energyRegex   = regexp.MustCompile(`(^|\s)!([a-zA-Z]+)`)
)

// ParseTitle extracts metadata from a task line using quick-add syntax
// Syntax: "Ship deck @alice #Films due:today !high"
func ParseTitle(input string) ParsedTask {
	result := ParsedTask{Errors: []string{}}

	// Extract assignee (@name), first one wins
	if m := assigneeRegex.FindStringSubmatch(input); m != nil {
		result.Assignee = m[2]
		input = assigneeRegex.ReplaceAllString(input, " ")
	}

	// Extract category (#name)
	if m := categoryRegex.FindStringSubmatch(input); m != nil {
		result.Category = m[2]
		input = categoryRegex.ReplaceAllString(input, " ")
	}

	// Extract due-by (due:today, due:"this week")
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		raw := strings.Trim(m[2], `"`)
		dueBy, err := ParseDueBy(raw)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.DueBy = dueBy
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Extract energy (!low, !medium, !high)
	if m := energyRegex.FindStringSubmatch(input); m != nil {
		energy, ok := ParseEnergy(m[2])
		if ok {
			result.Energy = energy
		} else {
			result.Errors = append(result.Errors, "Invalid energy '"+m[2]+"'. Use: low, medium or high")
		}
		input = energyRegex.ReplaceAllString(input, " ")
	}

	result.Action = strings.Join(strings.Fields(input), " ")
	return result
}

// ParseEnergy accepts low, medium and high in any case, or their first letter
func ParseEnergy(input string) (models.Energy, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "low", "l":
		return models.EnergyLow, true
	case "medium", "med", "m":
		return models.EnergyMedium, true
	case "high", "h":
		return models.EnergyHigh, true
	default:
		return "", false
	}
}
