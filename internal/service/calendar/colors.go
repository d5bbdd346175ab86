package calendar

import (
	"strings"

	"github.com/ecoscan/wastecal/internal/domain"
)

// DefaultColor marks events whose category matches no keyword.
const DefaultColor = "#607D8B"

// keywordColors is checked in order; the first keyword contained in the
// category wins.
var keywordColors = []struct {
	keyword string
	color   string
}{
	{"garbage", "#9e9e9e"},
	{"recycling", "#00adf5"},
	{"yardwaste", "#FF9800"},
	{"yard_waste", "#FF9800"},
	{"green_bin", "#4CAF50"},
	{"organics", "#4CAF50"},
}

// ColorFor returns the dot color of e. The category is the first non-empty
// of name, subject and event type, matched case-insensitively.
func ColorFor(e domain.Event) string {
	category := ""
	for _, v := range []*string{e.Name, e.Subject, e.EventType} {
		if v != nil && *v != "" {
			category = strings.ToLower(*v)
			break
		}
	}
	if category == "" {
		return DefaultColor
	}

	for _, kc := range keywordColors {
		if strings.Contains(category, kc.keyword) {
			return kc.color
		}
	}
	return DefaultColor
}
