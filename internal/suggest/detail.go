package suggest

import (
	"fmt"

	"github.com/khanglvm/catalog-search/internal/catalog"
)

// Detail holds the kind-specific fields of a suggestion. The set of
// implementations is closed to this package.
type Detail interface {
	detail()
}

// ItemRef is a reference to the catalog item a suggestion came from.
type ItemRef struct {
	ID       string
	Name     string
	Category string
	Rating   float64
}

func refOf(it catalog.Item) ItemRef {
	return ItemRef{ID: it.ID, Name: it.Name, Category: it.Category, Rating: it.Rating}
}

type (
	RecentDetail struct{}

	ItemDetail struct {
		Item        ItemRef
		Description string
	}

	TagDetail struct {
		Count int
	}

	TrendingDetail struct {
		Item ItemRef
	}

	IntentDetail struct {
		Category string
		Count    int
	}

	CategoryDetail struct {
		Count int
	}

	PricingDetail struct {
		Model string
	}

	RatingDetail struct {
		MinRating float64
	}

	InsightDetail struct {
		Category    string
		Count       int
		Description string
	}

	EnhancementDetail struct {
		Original string
	}

	ComparisonDetail struct {
		Left, Right ItemRef
	}

	QuestionDetail struct {
		Topic string
	}

	WorkflowDetail struct {
		Task     string
		Category string
	}

	IntegrationDetail struct {
		Platform string
		Count    int
	}

	AlternativeDetail struct {
		Item ItemRef
		Of   string
	}
)

func (RecentDetail) detail()      {}
func (ItemDetail) detail()        {}
func (TagDetail) detail()         {}
func (TrendingDetail) detail()    {}
func (IntentDetail) detail()      {}
func (CategoryDetail) detail()    {}
func (PricingDetail) detail()     {}
func (RatingDetail) detail()      {}
func (InsightDetail) detail()     {}
func (EnhancementDetail) detail() {}
func (ComparisonDetail) detail()  {}
func (QuestionDetail) detail()    {}
func (WorkflowDetail) detail()    {}
func (IntegrationDetail) detail() {}
func (AlternativeDetail) detail() {}

func kindOf(d Detail) Kind {
	switch d.(type) {
	case RecentDetail:
		return KindRecent
	case ItemDetail:
		return KindItem
	case TagDetail:
		return KindTag
	case TrendingDetail:
		return KindTrending
	case IntentDetail:
		return KindIntent
	case CategoryDetail:
		return KindCategory
	case PricingDetail:
		return KindPricing
	case RatingDetail:
		return KindRating
	case InsightDetail:
		return KindInsight
	case EnhancementDetail:
		return KindEnhancement
	case ComparisonDetail:
		return KindComparison
	case QuestionDetail:
		return KindQuestion
	case WorkflowDetail:
		return KindWorkflow
	case IntegrationDetail:
		return KindIntegration
	case AlternativeDetail:
		return KindAlternative
	default:
		panic(fmt.Sprintf("suggest: unhandled detail type %T", d))
	}
}

// Recent suggests re-running a previous search.
func Recent(text string, conf float64) Suggestion {
	return build(text, conf, RecentDetail{})
}

// ItemOf suggests a catalog item by name.
func ItemOf(it catalog.Item, conf float64) Suggestion {
	return build(it.Name, conf, ItemDetail{Item: refOf(it), Description: it.Description})
}

// Tag suggests a tag with the number of items carrying it.
func Tag(tag string, count int, conf float64) Suggestion {
	return build(tag, conf, TagDetail{Count: count})
}

// Trending suggests a popular item.
func Trending(it catalog.Item, conf float64) Suggestion {
	return build(it.Name, conf, TrendingDetail{Item: refOf(it)})
}

// TrendingText is a trending suggestion without a catalog item, used by the
// empty-query fallback.
func TrendingText(text string, conf float64) Suggestion {
	return build(text, conf, TrendingDetail{})
}

// Intent suggests a category the query appears to be looking for.
func Intent(text, category string, count int, conf float64) Suggestion {
	return build(text, conf, IntentDetail{Category: category, Count: count})
}

// Category suggests a catalog category.
func Category(category string, count int, conf float64) Suggestion {
	return build(category, conf, CategoryDetail{Count: count})
}

// Pricing suggests a pricing filter.
func Pricing(text, model string, conf float64) Suggestion {
	return build(text, conf, PricingDetail{Model: model})
}

// Rating suggests a minimum-rating filter.
func Rating(text string, min float64, conf float64) Suggestion {
	return build(text, conf, RatingDetail{MinRating: min})
}

// Insight summarizes a group of matching items.
func Insight(text, category string, count int, description string, conf float64) Suggestion {
	return build(text, conf, InsightDetail{Category: category, Count: count, Description: description})
}

// Enhancement suggests a corrected query.
func Enhancement(text, original string, conf float64) Suggestion {
	return build(text, conf, EnhancementDetail{Original: original})
}

// Comparison suggests comparing two items. Unresolved sides keep only a name.
func Comparison(text string, left, right ItemRef, conf float64) Suggestion {
	return build(text, conf, ComparisonDetail{Left: left, Right: right})
}

// Question suggests an answer page for a question-shaped query.
func Question(text, topic string, conf float64) Suggestion {
	return build(text, conf, QuestionDetail{Topic: topic})
}

// Workflow suggests tools for a recognized task.
func Workflow(text, task, category string, conf float64) Suggestion {
	return build(text, conf, WorkflowDetail{Task: task, Category: category})
}

// Integration suggests tools that integrate with a platform.
func Integration(text, platform string, count int, conf float64) Suggestion {
	return build(text, conf, IntegrationDetail{Platform: platform, Count: count})
}

// Alternative suggests it as an alternative to the item named of.
func Alternative(it catalog.Item, of string, conf float64) Suggestion {
	return build(it.Name, conf, AlternativeDetail{Item: refOf(it), Of: of})
}

// RefFor returns an item reference, or a name-only reference when the
// item is unknown.
func RefFor(it catalog.Item, ok bool, name string) ItemRef {
	if !ok {
		return ItemRef{Name: name}
	}
	return refOf(it)
}

// New builds a suggestion of kind with an empty detail. It is used when
// replaying stored feedback, where only the kind and text survive.
func New(kind Kind, text string, conf float64) (Suggestion, error) {
	var d Detail
	switch kind {
	case KindRecent:
		d = RecentDetail{}
	case KindItem:
		d = ItemDetail{}
	case KindTag:
		d = TagDetail{}
	case KindTrending:
		d = TrendingDetail{}
	case KindIntent:
		d = IntentDetail{}
	case KindCategory:
		d = CategoryDetail{}
	case KindPricing:
		d = PricingDetail{}
	case KindRating:
		d = RatingDetail{}
	case KindInsight:
		d = InsightDetail{}
	case KindEnhancement:
		d = EnhancementDetail{}
	case KindComparison:
		d = ComparisonDetail{}
	case KindQuestion:
		d = QuestionDetail{}
	case KindWorkflow:
		d = WorkflowDetail{}
	case KindIntegration:
		d = IntegrationDetail{}
	case KindAlternative:
		d = AlternativeDetail{}
	default:
		return Suggestion{}, fmt.Errorf("unknown suggestion kind %q", kind)
	}
	return build(text, conf, d), nil
}
