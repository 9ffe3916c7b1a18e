package responder

import (
	"context"
	"fmt"
	"strings"

	"partfinder/internal/port"
)

// TemplateResponder renders search results into a fixed response format.
// It never fails, which makes it the fallback for every other responder.
type TemplateResponder struct{}

func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{}
}

func (r *TemplateResponder) Respond(_ context.Context, in port.ResponderInput) (string, error) {
	if len(in.Results) == 0 {
		return noResultsResponse(in.Query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Search Results for:** %q\n\n", in.Query)
	fmt.Fprintf(&b, "Found %d matching products:\n\n", len(in.Results))

	shown := in.Results
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for i, result := range shown {
		p := result.Product
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "   Reference: %s\n", p.ReferenceNumber)
		fmt.Fprintf(&b, "   Category: %s\n", p.Category)
		fmt.Fprintf(&b, "   Page: %d in %s\n", p.PageNumber, p.CatalogSource)
		fmt.Fprintf(&b, "   Match: %.0f%%\n", result.Score*100)

		desc := p.Description
		if len([]rune(desc)) > 150 {
			desc = string([]rune(desc)[:150]) + "..."
		}
		fmt.Fprintf(&b, "   %s\n\n", desc)
	}

	if len(in.Recommendations) > 0 {
		b.WriteString("\n**Customers Also Bought:**\n")
		recs := in.Recommendations
		if len(recs) > 3 {
			recs = recs[:3]
		}
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s (Ref: %s)\n", rec.Product.Name, rec.Product.ReferenceNumber)
		}
	}

	return b.String(), nil
}

func (r *TemplateResponder) ModelName() string {
	return "template"
}

func noResultsResponse(query string) string {
	return fmt.Sprintf(`**No products found matching:** %q

**Suggestions:**
- Try different keywords (e.g., "warning" instead of "caution")
- Search by category: "labels", "signs", "handling equipment"
- Use broader terms (e.g., "safety label" instead of "red safety warning label")
- Check if you have the correct reference number

Try rephrasing your search or ask for help!`, query)
}
