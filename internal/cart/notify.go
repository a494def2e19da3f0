package cart

// Notification is the title/description pair handed to the sink after a
// mutation, meant for transient user-facing display.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Notifier interface {
	Notify(Notification)
}

// Title budgets for notification text. Titles are cut to the budget and
// always followed by "...", matching the storefront copy.
const (
	addTitleBudget    = 25
	updateTitleBudget = 20
)

func truncate(s string, budget int) string {
	r := []rune(s)
	if len(r) > budget {
		r = r[:budget]
	}
	return string(r) + "..."
}
