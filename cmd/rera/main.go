package main

import (
	"os"
	"strings"

	"rera-portal/internal/cli"
)

func isSubmissionID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "sub-") {
		return false
	}
	return len(s) > len("sub-")
}

// rewriteDirectSubmissionArgs makes `rera <submission-id>` behave like
// `rera submissions show <submission-id>`. Cobra treats the first positional
// token as a subcommand, so argv is rewritten before parsing. Persistent flags
// may come first; unknown flags are skipped without consuming a value.
func rewriteDirectSubmissionArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--catalog":   true,
		"--project":   true,
		"--format":    true,
		"--log-file":  true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "submissions", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isSubmissionID(argv[i+1]) {
				return rewrite(i + 1)
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
		if isSubmissionID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectSubmissionArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
