package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/models"
)

var spaceRegex = regexp.MustCompile(`[\s_-]+`)

// dueByAliases maps normalised user input to due-by tokens
var dueByAliases = map[string]models.DueBy{
	"1h":          models.DueByOneHour,
	"1hr":         models.DueByOneHour,
	"1 hr":        models.DueByOneHour,
	"1 hour":      models.DueByOneHour,
	"hour":        models.DueByOneHour,
	"6h":          models.DueBySixHours,
	"6hr":         models.DueBySixHours,
	"6hrs":        models.DueBySixHours,
	"6 hrs":       models.DueBySixHours,
	"6 hours":     models.DueBySixHours,
	"today":       models.DueByToday,
	"eod":         models.DueByToday,
	"3d":          models.DueByThreeDays,
	"3 days":      models.DueByThreeDays,
	"3days":       models.DueByThreeDays,
	"week":        models.DueByThisWeek,
	"this week":   models.DueByThisWeek,
	"thisweek":    models.DueByThisWeek,
	"eow":         models.DueByThisWeek,
	"month":       models.DueByThisMonth,
	"this month":  models.DueByThisMonth,
	"thismonth":   models.DueByThisMonth,
	"eom":         models.DueByThisMonth,
	"backburner":  models.DueByBackburner,
	"back burner": models.DueByBackburner,
	"someday":     models.DueByBackburner,
	"later":       models.DueByBackburner,
}

// ParseDueBy normalises a due-by spelling to its token.
// Supported forms include the exact tokens ("1 hr", "This Week") and short
// aliases like 1h, 6hrs, today, 3d, week, month, someday.
func ParseDueBy(input string) (models.DueBy, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("due-by cannot be empty")
	}
	if deadline.Known(models.DueBy(input)) {
		return models.DueBy(input), nil
	}

	key := spaceRegex.ReplaceAllString(strings.ToLower(input), " ")
	if dueBy, ok := dueByAliases[key]; ok {
		return dueBy, nil
	}
	return "", fmt.Errorf("invalid due-by %q. Use: %s", input, DueByChoices())
}

// DueByChoices lists the accepted due-by tokens for help text
func DueByChoices() string {
	all := deadline.All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// FormatDeadline formats a deadline for display relative to now
func FormatDeadline(d *time.Time, now time.Time) string {
	if d == nil {
		return ""
	}

	local := d.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	dateStr := local.Format("02/01/2006")

	switch {
	case local.Before(now):
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("Due today %s", local.Format("15:04"))
	case daysDiff == 1:
		return fmt.Sprintf("Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("Due %s", dateStr)
	}
}
