package lang

import (
	"golang.org/x/text/language"
)

// Match returns the loaded language whose name best matches the given
// BCP 47 preference list (e.g. "en-US", "pt-BR"), most preferred
// first. Loaded names that do not parse as language tags are skipped.
// Returns false when nothing matches with any confidence.
func (s *Service) Match(preferred ...string) (string, bool) {
	if len(preferred) == 0 {
		return "", false
	}

	var (
		tags  []language.Tag
		names []string
	)
	for _, name := range s.reg.Names() {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, name)
	}
	if len(tags) == 0 {
		return "", false
	}

	var desired []language.Tag
	for _, p := range preferred {
		if tag, err := language.Parse(p); err == nil {
			desired = append(desired, tag)
		}
	}
	if len(desired) == 0 {
		return "", false
	}

	matcher := language.NewMatcher(tags)
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return "", false
	}
	return names[index], true
}
