// Package taxonomy is the static mapping from transaction mode to the
// category names allowed for it. Lists are ordered the way forms
// present them.
package taxonomy

import "github.com/homeledger/homeledger/internal/models"

var categories = map[models.Mode][]string{
	models.ModeExpense: {
		"Groceries",
		"Transport",
		"Housing",
		"Utilities",
		"Entertainment",
		"Healthcare",
		"Dining Out",
		"Shopping",
		"Transfer",
		"Other",
	},
	models.ModeIncome: {
		"Salary",
		"Freelance",
		"Investments",
		"Transfer",
		"Gift",
		"Refund",
		"Other",
	},
}

var goalCategories = []string{
	"Savings",
	"Electronics",
	"Health",
	"Education",
	"Travel",
	"Other",
}

// CategoriesFor returns the ordered category list for a mode. Unknown
// modes yield an empty list.
func CategoriesFor(mode models.Mode) []string {
	src := categories[mode]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Valid reports whether category belongs to the list for mode.
func Valid(mode models.Mode, category string) bool {
	for _, c := range categories[mode] {
		if c == category {
			return true
		}
	}
	return false
}

// Resolve picks the category to use after a mode change: the current
// one if it is still valid for the mode, otherwise the mode's first
// option. Calling it with an already-valid category is a no-op.
func Resolve(mode models.Mode, current string) string {
	if Valid(mode, current) {
		return current
	}
	if list := categories[mode]; len(list) > 0 {
		return list[0]
	}
	return ""
}

// GoalCategories returns the ordered category list for savings goals.
func GoalCategories() []string {
	out := make([]string, len(goalCategories))
	copy(out, goalCategories)
	return out
}
