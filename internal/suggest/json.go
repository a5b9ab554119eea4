package suggest

import "encoding/json"

// jsonSuggestion is the flattened wire form shared by the CLI and MCP server.
type jsonSuggestion struct {
	Type        Kind    `json:"type"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Count       int     `json:"count,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ItemID      string  `json:"itemId,omitempty"`
}

// MarshalJSON flattens the detail into optional top-level fields.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	out := jsonSuggestion{Type: s.Kind(), Text: s.Text, Confidence: s.Confidence}

	withItem := func(ref ItemRef) {
		out.ItemID = ref.ID
		out.Rating = ref.Rating
		if out.Category == "" {
			out.Category = ref.Category
		}
	}

	switch d := s.Detail.(type) {
	case ItemDetail:
		withItem(d.Item)
		out.Description = d.Description
	case TagDetail:
		out.Count = d.Count
	case TrendingDetail:
		withItem(d.Item)
	case IntentDetail:
		out.Category = d.Category
		out.Count = d.Count
	case CategoryDetail:
		out.Category = s.Text
		out.Count = d.Count
	case PricingDetail:
		out.Description = d.Model
	case RatingDetail:
		out.Rating = d.MinRating
	case InsightDetail:
		out.Category = d.Category
		out.Count = d.Count
		out.Description = d.Description
	case EnhancementDetail:
		out.Description = d.Original
	case ComparisonDetail:
		out.Description = d.Left.Name + " vs " + d.Right.Name
	case QuestionDetail:
		out.Description = d.Topic
	case WorkflowDetail:
		out.Category = d.Category
		out.Description = d.Task
	case IntegrationDetail:
		out.Count = d.Count
		out.Description = d.Platform
	case AlternativeDetail:
		withItem(d.Item)
		out.Description = "Alternative to " + d.Of
	}

	return json.Marshal(out)
}
