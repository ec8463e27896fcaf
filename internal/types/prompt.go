package types

import "strings"

// Section headings of the assistant prompts. The content of a section is
// the line that follows its heading.
const (
	PromptContextHeading  = "CURRENT SYSTEM DATA:"
	PromptUserHeading     = "USER QUERY:"
	PromptMockDataHeading = "SAMPLE DATA REQUEST:"
)

// PromptSection returns the first line after heading, or false when the
// prompt has no such section.
func PromptSection(prompt, heading string) (string, bool) {
	lines := strings.Split(prompt, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != heading {
			continue
		}
		if i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1]), true
		}
		return "", true
	}
	return "", false
}
