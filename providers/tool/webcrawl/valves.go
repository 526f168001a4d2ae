package webcrawl

import (
	"encoding/json"

	"github.com/leofalp/webcrawl/providers/crawler"
)

// Valves is the host-editable configuration block of the tool.
type Valves struct {
	// IgnoreLinks strips hyperlinks from the Markdown, keeping their text.
	IgnoreLinks bool `json:"IGNORE_LINKS" jsonschema:"description=Strip links from the crawled markdown,default=true"`

	// IgnoreImages drops images from the Markdown.
	IgnoreImages bool `json:"IGNORE_IMAGES" jsonschema:"description=Strip images from the crawled markdown,default=true"`
}

// DefaultValves returns Valves with both flags enabled.
func DefaultValves() Valves {
	return Valves{IgnoreLinks: true, IgnoreImages: true}
}

// UnmarshalJSON decodes the host's valve block. Keys that are absent keep
// their default value.
func (v *Valves) UnmarshalJSON(data []byte) error {
	type plain Valves
	decoded := plain(DefaultValves())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Valves(decoded)
	return nil
}

// CrawlerConfig maps the valves onto the crawler's Markdown options.
func (v Valves) CrawlerConfig() crawler.Config {
	return crawler.Config{
		IgnoreLinks:  v.IgnoreLinks,
		IgnoreImages: v.IgnoreImages,
	}
}
