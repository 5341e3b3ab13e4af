package main

import (
	"os"
	"strings"

	"rowlist/internal/cli"
	"rowlist/internal/store"
)

// rewriteDirectRowLookupArgs makes `rowlist <row-id>` behave like
// `rowlist rows show <row-id>`. Persistent flags may come first, so it looks
// for the first positional token rather than argv[1].
func rewriteDirectRowLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without their value so a row id is never
	// swallowed.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--list":      true,
		"--config":    true,
		"--log-level": true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "rows", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsRowID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if store.IsRowID(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectRowLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
