package deployignore

import (
	"bufio"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/saucelabs/zipdeploy/internal/msg"
)

// Filename is the name of the ignore file that is looked up in the source directory.
const Filename = ".deployignore"

const commentPrefix = "#"

// DefaultPatterns are applied before any user defined pattern. Users can re-include them with a negated pattern,
// e.g. "!.env".
var DefaultPatterns = []Pattern{
	{P: ".git/"},
	{P: ".env"},
}

// PatternsFromFile reads a .deployignore file and creates ignore patterns if the file exists.
func PatternsFromFile(path string) ([]Pattern, error) {
	if path == "" {
		return []Pattern{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			msg.LogDeployIgnoreNotExist()
			return []Pattern{}, nil
		}
		return []Pattern{}, err
	}
	defer f.Close()

	var ps []Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(s, commentPrefix) && len(strings.TrimSpace(s)) > 0 {
			ps = append(ps, NewPattern(s))
		}
	}

	return ps, scanner.Err()
}

// Pattern defines a single ignore pattern in gitignore syntax.
type Pattern struct {
	P string
}

// NewPattern create new Pattern.
func NewPattern(p string) Pattern {
	return Pattern{P: p}
}

func toGitignorePatterns(pp []Pattern) []gitignore.Pattern {
	res := make([]gitignore.Pattern, len(pp))
	for i := 0; i < len(pp); i++ {
		res[i] = gitignore.ParsePattern(pp[i].P, nil)
	}

	return res
}

// Matcher defines matcher for ignore patterns.
type Matcher interface {
	// Match reports whether the path, split into its components relative to the source directory, is ignored.
	Match(path []string, isDir bool) bool
}

type matcher struct {
	matcher gitignore.Matcher
}

// Match matches patterns.
func (m *matcher) Match(path []string, isDir bool) bool {
	return m.matcher.Match(path, isDir)
}

// NewMatcher constructs a new matcher. Later patterns take precedence over earlier ones.
func NewMatcher(ps []Pattern) Matcher {
	return &matcher{matcher: gitignore.NewMatcher(toGitignorePatterns(ps))}
}

// NewMatcherFromFile constructs a new matcher from the DefaultPatterns followed by the patterns in the file at path.
func NewMatcherFromFile(path string) (Matcher, error) {
	ps, err := PatternsFromFile(path)
	if err != nil {
		return nil, err
	}

	return NewMatcher(append(append([]Pattern{}, DefaultPatterns...), ps...)), nil
}
