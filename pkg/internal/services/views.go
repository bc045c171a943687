package services

import (
	"fmt"
	"regexp"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/samber/lo"
)

const DefaultMobileViewSuffix = "-jQM"

var DefaultMobileAgents = []string{
	".*iPhone.*",
	".*Android.*",
	".*IEMobile.*",
	".*Safari.*Pre.*",
	".*Nokia.*AppleWebKit.*",
	".*Black[Bb]erry.*",
	".*Opera Mobile.*",
	".*Kindle.*",
	".*Silk.*",
}

// ViewNameSelector picks the mobile flavour of a view for handheld user agents.
type ViewNameSelector struct {
	agents []*regexp.Regexp
	suffix string
}

func NewViewNameSelector(agents []string, suffix string) (*ViewNameSelector, error) {
	compiled := make([]*regexp.Regexp, 0, len(agents))
	for _, agent := range agents {
		pattern, err := regexp.Compile(agent)
		if err != nil {
			return nil, fmt.Errorf("invalid mobile agent pattern %q: %v", agent, err)
		}
		compiled = append(compiled, pattern)
	}
	return &ViewNameSelector{agents: compiled, suffix: suffix}, nil
}

func (v *ViewNameSelector) Select(rc models.RequestContext, name string) string {
	if len(rc.UserAgent) == 0 {
		return name
	}
	mobile := lo.ContainsBy(v.agents, func(item *regexp.Regexp) bool {
		return item.MatchString(rc.UserAgent)
	})
	if mobile {
		return name + v.suffix
	}
	return name
}
