package engine

import "strings"

// CompareVersions compares two dotted numeric versions component-wise.
// Missing trailing components are treated as 0, and non-numeric suffixes
// within a component are ignored ("22.04-LTS" compares as 22.4). Returns
// -1, 0, or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := range n {
		av := versionComponent(as, i)
		bv := versionComponent(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func versionComponent(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n := 0
	for _, r := range parts[i] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
