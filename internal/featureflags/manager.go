// Package featureflags evaluates the FEATURE_FLAGS rollout switches that gate
// the ranked feed surface.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags understood by the server.
const (
	// ForYouFeed gates the ranked feed. Off sends viewers to the public feed.
	ForYouFeed = "for_you_feed"
	// ScoreBreakdown exposes per-post ranking scores in for-you responses.
	ScoreBreakdown = "score_breakdown"
)

// Definition documents a flag the server reads.
type Definition struct {
	Name        string `json:"name"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

var definitions = []Definition{
	{ForYouFeed, "on", "Serve the ranked for-you feed; off falls back to the public feed"},
	{ScoreBreakdown, "on", "Include the per-post score breakdown in for-you responses"},
}

// Definitions returns the flags the server reads, in name order.
func Definitions() []Definition {
	out := append([]Definition(nil), definitions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

// rule is a parsed flag value. Unparseable values evaluate as off.
type rule struct {
	raw  string
	kind ruleKind
	pct  int
}

func parseRule(value string) rule {
	r := rule{raw: value}
	switch value {
	case "on", "true", "1":
		r.kind = ruleOn
		return r
	case "off", "false", "0":
		return r
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		switch {
		case err != nil || pct <= 0:
		case pct >= 100:
			r.kind = ruleOn
		default:
			r.kind, r.pct = rulePercent, pct
		}
	}
	return r
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "for_you_feed=25%,score_breakdown=off"
type Manager struct {
	rules map[string]rule
}

// NewManager creates a feature-flag manager from a comma-separated config
// string. Flags the string does not mention keep their defaults.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule, len(definitions))
	for _, d := range definitions {
		rules[d.Name] = parseRule(d.Default)
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		rules[key] = parseRule(value)
	}

	return &Manager{rules: rules}
}

// Enabled returns whether a flag is enabled for a viewer. Percentage rollouts
// bucket signed-in viewers deterministically and leave anonymous viewers out.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		return userID != 0 && rolloutBucket(name, userID) < r.pct
	}
	return false
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// Unknown lists configured flags the server never reads, usually typos.
func (m *Manager) Unknown() []string {
	known := make(map[string]bool, len(definitions))
	for _, d := range definitions {
		known[d.Name] = true
	}
	var out []string
	for name := range m.rules {
		if !known[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
