package strategy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

const (
	questionConfidence    = 0.85
	workflowConfidence    = 0.75
	integrationConfidence = 0.8
	integrationNoMatches  = 0.6
	alternativeLimit      = 5
	alternativeTop        = 0.9
	alternativeStep       = 0.05
	comparisonResolved    = 0.9
	comparisonUnresolved  = 0.6
	minFuzzyNameLen       = 3
)

// questionPattern turns a question-shaped query into a display text.
type questionPattern struct {
	re     *regexp.Regexp
	format func(m []string) (text, topic string)
}

var questionPatterns = []questionPattern{
	{regexp.MustCompile(`^how (?:do|can|should) (?:i|you|we) (.+?)\??$`), func(m []string) (string, string) {
		return "How to " + m[1], m[1]
	}},
	{regexp.MustCompile(`^how to (.+?)\??$`), func(m []string) (string, string) {
		return "How to " + m[1], m[1]
	}},
	{regexp.MustCompile(`^what(?: is|'s| are) (?:an? |the )?(.+?)\??$`), func(m []string) (string, string) {
		return "What is " + m[1] + "?", m[1]
	}},
	{regexp.MustCompile(`^(?:which|what) (.+?)\??$`), func(m []string) (string, string) {
		return "Which " + m[1] + "?", m[1]
	}},
	{regexp.MustCompile(`^(?:the )?best (.+?) for (.+?)\??$`), func(m []string) (string, string) {
		return "Best " + m[1] + " for " + m[2], m[1]
	}},
	{regexp.MustCompile(`^(?:the )?best (.+?)\??$`), func(m []string) (string, string) {
		return "Best " + m[1], m[1]
	}},
}

// questionMatch recognizes how-to, what-is, which and best-for queries.
// Only the first matching pattern contributes.
func questionMatch(q Query, _ *Context) ([]suggest.Suggestion, error) {
	for _, p := range questionPatterns {
		m := p.re.FindStringSubmatch(q.Text)
		if m == nil {
			continue
		}
		text, topic := p.format(m)
		if strings.TrimSpace(topic) == "" {
			continue
		}
		return []suggest.Suggestion{suggest.Question(text, topic, questionConfidence)}, nil
	}
	return []suggest.Suggestion{}, nil
}

// workflowRule maps task phrases to a task and category.
type workflowRule struct {
	phrases  []string
	task     string
	category string
}

var workflowRules = []workflowRule{
	{[]string{"write blog", "blog post", "write article"}, "Write a blog post", "Writing"},
	{[]string{"edit video", "video editing", "make video", "create video"}, "Edit a video", "Video Creation"},
	{[]string{"generate image", "create image", "make logo", "design logo"}, "Create images", "Image Generation"},
	{[]string{"write code", "debug code", "code review"}, "Write code", "Code Assistant"},
	{[]string{"meeting notes", "summarize meeting", "transcribe"}, "Take meeting notes", "Productivity"},
	{[]string{"make music", "compose music", "create song"}, "Compose music", "Music"},
	{[]string{"voice over", "voiceover", "text to speech"}, "Create a voiceover", "Audio & Voice"},
	{[]string{"marketing copy", "write ad", "social media post"}, "Create marketing content", "Marketing"},
	{[]string{"analyze data", "data analysis", "build chart"}, "Analyze data", "Data Analysis"},
}

// workflowMatch maps task descriptions to tool categories. A phrase
// matches as a substring or when all of its words appear as tokens.
func workflowMatch(q Query, _ *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}
	for _, rule := range workflowRules {
		if rule.matches(q) {
			out = append(out, suggest.Workflow("Workflow: "+rule.task, rule.task, rule.category, workflowConfidence))
		}
	}
	return out, nil
}

func (r workflowRule) matches(q Query) bool {
	for _, phrase := range r.phrases {
		if strings.Contains(q.Text, phrase) {
			return true
		}
		all := true
		for _, w := range strings.Fields(phrase) {
			if !hasToken(q.Tokens, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// platform is an integration target recognized in queries.
type platform struct {
	name    string
	aliases []string
}

var platforms = []platform{
	{"Slack", []string{"slack"}},
	{"Notion", []string{"notion"}},
	{"Zapier", []string{"zapier"}},
	{"Google", []string{"google", "gmail", "google docs", "google sheets", "google drive"}},
	{"Discord", []string{"discord"}},
	{"GitHub", []string{"github"}},
	{"Figma", []string{"figma"}},
	{"Shopify", []string{"shopify"}},
	{"WordPress", []string{"wordpress"}},
	{"HubSpot", []string{"hubspot"}},
	{"Salesforce", []string{"salesforce"}},
	{"Microsoft Teams", []string{"microsoft teams", "teams"}},
	{"Trello", []string{"trello"}},
	{"Jira", []string{"jira"}},
	{"VS Code", []string{"vscode", "vs code", "visual studio code"}},
	{"Chrome", []string{"chrome"}},
}

// integrationMatch detects named platforms and counts items listing them.
func integrationMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	out := []suggest.Suggestion{}
	for _, p := range platforms {
		if !matchesKeyword(q, p.aliases) {
			continue
		}
		count := countIntegrations(c.items(), p.name)
		conf := integrationConfidence
		if count == 0 {
			conf = integrationNoMatches
		}
		out = append(out, suggest.Integration("Tools that integrate with "+p.name, p.name, count, conf))
	}
	return out, nil
}

func countIntegrations(items []catalog.Item, name string) int {
	needle := strings.ToLower(name)
	n := 0
	for _, it := range items {
		if anyContains(it.Integrations, needle) {
			n++
		}
	}
	return n
}

var alternativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:alternatives?|replacements?|substitutes?) (?:to|for) (.+)$`),
	regexp.MustCompile(`^(.+?) (?:alternatives?|replacements?)$`),
	regexp.MustCompile(`^(?:tools? |apps? |something )?(?:like|similar to) (.+)$`),
	regexp.MustCompile(`^instead of (.+)$`),
}

// alternativeMatch extracts "alternative to X" and suggests other items in
// X's category, best rated first.
func alternativeMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	target := ""
	for _, re := range alternativePatterns {
		if m := re.FindStringSubmatch(q.Text); m != nil {
			target = strings.TrimSpace(m[1])
			break
		}
	}
	if target == "" {
		return []suggest.Suggestion{}, nil
	}

	source, ok := resolveItem(c.Catalog, target)
	if !ok {
		return []suggest.Suggestion{}, nil
	}

	var peers []catalog.Item
	for _, it := range c.Catalog.ItemsInCategory(source.Category) {
		if it.ID == source.ID && strings.EqualFold(it.Name, source.Name) {
			continue
		}
		peers = append(peers, it)
	}
	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].Rating != peers[j].Rating {
			return peers[i].Rating > peers[j].Rating
		}
		return strings.ToLower(peers[i].Name) < strings.ToLower(peers[j].Name)
	})
	if len(peers) > alternativeLimit {
		peers = peers[:alternativeLimit]
	}

	out := make([]suggest.Suggestion, 0, len(peers))
	for rank, it := range peers {
		out = append(out, suggest.Alternative(it, source.Name, alternativeTop-alternativeStep*float64(rank)))
	}
	return out, nil
}

// resolveItem finds an item by exact name, falling back to the first item
// (in catalog order) whose name contains or is contained in name.
func resolveItem(c *catalog.Catalog, name string) (catalog.Item, bool) {
	if it, ok := c.FindByName(name); ok {
		return it, true
	}
	if runeLen(name) < minFuzzyNameLen {
		return catalog.Item{}, false
	}
	lower := strings.ToLower(name)
	for _, it := range c.Items() {
		itemName := strings.ToLower(it.Name)
		if runeLen(itemName) < minFuzzyNameLen {
			continue
		}
		if strings.Contains(itemName, lower) || strings.Contains(lower, itemName) {
			return it, true
		}
	}
	return catalog.Item{}, false
}

var comparisonSeparators = []string{" vs. ", " vs ", " versus ", " compared to ", " compared with ", " or "}

// comparisonMatch splits "X vs Y" queries into two sides.
func comparisonMatch(q Query, c *Context) ([]suggest.Suggestion, error) {
	for _, sep := range comparisonSeparators {
		left, right, found := strings.Cut(q.Text, sep)
		if !found {
			continue
		}
		left = strings.TrimSpace(strings.TrimPrefix(left, "compare "))
		right = strings.TrimSpace(strings.TrimSuffix(right, "?"))
		if left == "" || right == "" {
			continue
		}

		li, lok := resolveItem(c.Catalog, left)
		ri, rok := resolveItem(c.Catalog, right)
		lref := suggest.RefFor(li, lok, titleCase(left))
		rref := suggest.RefFor(ri, rok, titleCase(right))

		conf := comparisonUnresolved
		if lok && rok {
			conf = comparisonResolved
		}
		text := fmt.Sprintf("%s vs %s", lref.Name, rref.Name)
		return []suggest.Suggestion{suggest.Comparison(text, lref, rref, conf)}, nil
	}
	return []suggest.Suggestion{}, nil
}
