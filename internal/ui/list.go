package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"tunebridge/internal/tasks"
)

var _ list.Item = queryItem{}

// queryItem wraps [tasks.QueryResult] to implement [list.Item].
type queryItem struct {
	result tasks.QueryResult
}

func (i queryItem) FilterValue() string { return i.result.Query }
func (i queryItem) Title() string       { return i.result.Query }
func (i queryItem) Description() string {
	switch i.result.Outcome {
	case tasks.OutcomeMatched:
		desc := i.result.Link
		if i.result.LowConfidence {
			desc = fmt.Sprintf("%s • low confidence (%.2f)", desc, i.result.Confidence)
		}
		return desc
	case tasks.OutcomeNoMatch:
		return "no match found"
	case tasks.OutcomeFailed:
		return fmt.Sprintf("search failed: %v", i.result.Err)
	default:
		return ""
	}
}
