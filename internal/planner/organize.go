package planner

import (
	"fmt"
	"strings"

	"github.com/lotas/tabwarden/internal/catalog"
	"github.com/lotas/tabwarden/internal/types"
)

// OrganizeOptions controls AutoOrganize.
type OrganizeOptions struct {
	// CloseDuplicates queues a close command for duplicate tabs before any
	// group command; closed tabs are excluded from categorization.
	CloseDuplicates bool
}

// AutoOrganize classifies eligible tabs against the organize catalog and
// queues one create-group command per non-empty category, in catalog
// order. Pinned tabs and internal browser pages are excluded outright:
// they get no group and are not counted as "Other".
func (p *Planner) AutoOrganize(s *types.Snapshot, opts OrganizeOptions) (Result, error) {
	var result Result

	skip := make(map[int]bool)
	if opts.CloseDuplicates {
		dups := duplicateTabs(s.Tabs)
		if len(dups) > 0 {
			cmd, err := p.emit(types.Command{Action: types.ActionCloseTabs, TabIDs: ids(dups)})
			if err != nil {
				return Result{}, err
			}
			result.Commands = append(result.Commands, cmd)
			for _, t := range dups {
				skip[t.ID] = true
			}
		}
	}

	buckets := make(map[string][]types.Tab)
	for _, t := range s.Tabs {
		if skip[t.ID] || t.Pinned || catalog.IsInternalURL(t.URL) {
			continue
		}
		if cat, ok := catalog.Organize.Match(t.Domain, t.URL); ok {
			buckets[cat.Name] = append(buckets[cat.Name], t)
		}
	}

	var lines []string
	if n := len(skip); n > 0 {
		lines = append(lines, fmt.Sprintf("Closing %d duplicate tab(s)", n))
	}

	// Group commands go out in catalog order, which is also the order
	// categories were first assigned above.
	for _, cat := range catalog.Organize {
		tabs := buckets[cat.Name]
		if len(tabs) == 0 {
			continue
		}
		cmd, err := p.emit(types.Command{
			Action: types.ActionCreateGroup,
			TabIDs: ids(tabs),
			Name:   cat.Name,
			Color:  cat.Color,
		})
		if err != nil {
			return Result{}, err
		}
		result.Commands = append(result.Commands, cmd)
		lines = append(lines, fmt.Sprintf("%s (%s): %d tab(s)", cat.Name, cat.Color, len(tabs)))
	}

	if len(result.Commands) == 0 {
		result.Message = "Nothing to organize — no tabs matched any category."
		return result, nil
	}
	result.Message = fmt.Sprintf("Queued %d command(s):\n%s",
		len(result.Commands), strings.Join(lines, "\n"))
	return result, nil
}
