package source

import (
	"errors"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/matchwarden/matchwarden/internal/model"
)

// errNoURL rejects postings without the one field the cache keys on.
var errNoURL = errors.New("posting has no url")

// Normalize trims the posting's fields, requires a non-empty URL, and tags
// the text language (ISO 639-3). A posting already carrying a language tag
// keeps it. Detection is advisory: an unreliable guess leaves the tag empty.
func Normalize(p model.JobPosting) (model.JobPosting, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.URL = strings.TrimSpace(p.URL)
	p.Description = strings.TrimSpace(p.Description)
	p.Location = strings.TrimSpace(p.Location)

	if p.URL == "" {
		return model.JobPosting{}, errNoURL
	}

	if p.Language == "" {
		if text := p.Title + "\n" + p.Description; strings.TrimSpace(text) != "" {
			info := whatlanggo.Detect(text)
			if info.IsReliable() {
				p.Language = info.Lang.Iso6393()
			}
		}
	}
	return p, nil
}
