package browser

import (
	"fmt"
	"strings"
)

// Viewport describes the emulated device screen
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
	Mobile            bool
}

// Profile is a named viewport used for screenshots
type Profile struct {
	Name     string
	Viewport Viewport
}

var (
	Desktop = Profile{Name: "desktop", Viewport: Viewport{Width: 1920, Height: 1080, DeviceScaleFactor: 1}}
	Tablet  = Profile{Name: "tablet", Viewport: Viewport{Width: 768, Height: 1024, DeviceScaleFactor: 1, Mobile: true}}
	Mobile  = Profile{Name: "mobile", Viewport: Viewport{Width: 375, Height: 667, DeviceScaleFactor: 1, Mobile: true}}
)

var knownProfiles = map[string]Profile{
	Desktop.Name: Desktop,
	Tablet.Name:  Tablet,
	Mobile.Name:  Mobile,
}

// ProfileByName looks up a built-in profile
func ProfileByName(name string) (Profile, bool) {
	p, ok := knownProfiles[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// ProfilesByName resolves names in order, rejecting unknown and duplicate names
func ProfilesByName(names []string) ([]Profile, error) {
	profiles := make([]Profile, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		p, ok := ProfileByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown screenshot profile %q", name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate screenshot profile %q", p.Name)
		}
		seen[p.Name] = true
		profiles = append(profiles, p)
	}
	return profiles, nil
}
