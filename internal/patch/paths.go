package patch

import "regexp"

// diffHeader is line-anchored so hunk body text that merely mentions a diff
// command cannot be mistaken for a file boundary.
var diffHeader = regexp.MustCompile(`(?m)^diff --git a/(\S+) b/(\S+)`)

// FilePaths collects the unique post-image (b/) paths named by the hunks'
// "diff --git" headers, in first-seen order. A file referenced by several
// hunks appears once.
func FilePaths(hunks []string) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, hunk := range hunks {
		for _, m := range diffHeader.FindAllStringSubmatch(hunk, -1) {
			path := m[2]
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	return paths
}
