package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by action, assignee or category",
	Long: `Search tasks with ranked matching:
- Exact match (highest rank)
- Prefix match
- Suffix match
- Contains match (lowest rank)

Search is case insensitive. Only active tasks are searched unless --all is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		query := strings.ToLower(strings.Join(args, " "))
		all, _ := cmd.Flags().GetBool("all")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		pool := repo.Tasks()
		if !all {
			pool = stats.Active(pool)
		}
		tasks := searchTasks(pool, query)

		if jsonOutput {
			return renderJSON(struct {
				Query string        `json:"query"`
				Count int           `json:"count"`
				Tasks []models.Task `json:"tasks"`
			}{query, len(tasks), tasks})
		}

		fmt.Printf("Search results for '%s' (%d found):\n", query, len(tasks))
		if len(tasks) == 0 {
			fmt.Println("No tasks found matching your search.")
			return nil
		}
		fmt.Println()
		renderTaskTable(tasks, repo.Now())
		return nil
	}),
}

// matchRank scores field against query; lower is better, -1 means no match
func matchRank(field, query string) int {
	field = strings.ToLower(field)
	switch {
	case field == "":
		return -1
	case field == query:
		return 0
	case strings.HasPrefix(field, query):
		return 1
	case strings.HasSuffix(field, query):
		return 2
	case strings.Contains(field, query):
		return 3
	default:
		return -1
	}
}

// searchTasks returns matching tasks, best rank first, then newest first
func searchTasks(tasks []models.Task, query string) []models.Task {
	type hit struct {
		task models.Task
		rank int
	}
	var hits []hit
	for _, t := range tasks {
		best := -1
		for _, field := range []string{t.Action, t.Assignee, t.Category} {
			if r := matchRank(field, query); r >= 0 && (best < 0 || r < best) {
				best = r
			}
		}
		if best >= 0 {
			hits = append(hits, hit{t, best})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].task.ID > hits[j].task.ID
	})

	out := make([]models.Task, len(hits))
	for i, h := range hits {
		out[i] = h.task
	}
	return out
}

func init() {
	searchCmd.Flags().Bool("all", false, "Search archived, done and deleted tasks too")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
