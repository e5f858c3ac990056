package matching

import "strings"

// Search keeps candidates whose name or description contains query,
// ignoring case. A blank query returns candidates unchanged.
func Search(candidates []Candidate, query string) []Candidate {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return candidates
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle) {
			out = append(out, c)
		}
	}
	return out
}
