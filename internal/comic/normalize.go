// File: internal/comic/normalize.go
package comic

import (
	"strconv"
	"strings"
)

// The upstream catalogs disagree on almost every field: Marvel ships a
// path+extension thumbnail and a creators.items array, Comic Vine ships a flat
// url thumbnail and a person_credits array. Each shape gets exactly one
// mapping function into the canonical Comic; which one applies is decided by
// the payload's declared source, never sniffed from field presence.

// SourceMarvel and SourceComicVine tag which upstream produced a raw payload.
const (
	SourceMarvel    = "marvel"
	SourceComicVine = "comicvine"
)

const marvelUnavailableSentinel = "image_not_available"

// MarvelImage is the path+extension thumbnail model.
type MarvelImage struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
}

// MarvelCreator is a single entry of a creators.items array.
type MarvelCreator struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// MarvelSeries references the comic's series summary.
type MarvelSeries struct {
	Name        string `json:"name"`
	ResourceURI string `json:"resourceURI"`
}

// MarvelComic mirrors the subset of the Marvel comic schema this system reads.
type MarvelComic struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	IssueNumber        float64      `json:"issueNumber"`
	Description        string       `json:"description"`
	VariantDescription string       `json:"variantDescription"`
	PageCount          int          `json:"pageCount"`
	Thumbnail          *MarvelImage `json:"thumbnail"`
	Series             MarvelSeries `json:"series"`
	Creators           struct {
		Items []MarvelCreator `json:"items"`
	} `json:"creators"`
}

// FromMarvel maps a Marvel payload into the canonical Comic shape.
func FromMarvel(m *MarvelComic) *Comic {
	c := &Comic{
		ExternalID:  m.ID,
		Title:       m.Title,
		IssueNumber: m.IssueNumber,
		Description: m.Description,
		Thumbnail:   marvelThumbnailURL(m.Thumbnail),
		Series: Series{
			Name:        m.Series.Name,
			ResourceURI: m.Series.ResourceURI,
		},
		Variant: m.VariantDescription != "",
		PgCount: m.PageCount,
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	c.Creators.Items = make([]Creator, 0, len(m.Creators.Items))
	for _, cr := range m.Creators.Items {
		c.Creators.Items = append(c.Creators.Items, Creator{
			Role: orUnknown(cr.Role),
			Name: orUnknown(cr.Name),
		})
	}
	return c
}

func marvelThumbnailURL(img *MarvelImage) string {
	if img == nil || img.Path == "" {
		return PlaceholderThumbnail
	}
	if strings.Contains(img.Path, marvelUnavailableSentinel) {
		return PlaceholderThumbnail
	}
	if img.Extension == "" {
		return img.Path
	}
	return img.Path + "." + img.Extension
}

// ComicVineImage is the flat url thumbnail model.
type ComicVineImage struct {
	URL string `json:"url"`
}

// ComicVinePerson is a single entry of a person_credits array.
type ComicVinePerson struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ComicVineVolume references the issue's volume.
type ComicVineVolume struct {
	Name         string `json:"name"`
	APIDetailURL string `json:"api_detail_url"`
}

// ComicVineIssue mirrors the subset of the Comic Vine issue schema this
// system reads.
type ComicVineIssue struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	IssueNumber   string            `json:"issue_number"`
	Description   string            `json:"description"`
	PageCount     int               `json:"page_count"`
	Image         *ComicVineImage   `json:"image"`
	Volume        *ComicVineVolume  `json:"volume"`
	PersonCredits []ComicVinePerson `json:"person_credits"`
}

// FromComicVine maps a Comic Vine payload into the canonical Comic shape.
func FromComicVine(v *ComicVineIssue) *Comic {
	c := &Comic{
		ExternalID:  v.ID,
		Title:       v.Name,
		IssueNumber: parseIssueNumber(v.IssueNumber),
		Description: strings.TrimSpace(v.Description),
		Thumbnail:   PlaceholderThumbnail,
		PgCount:     v.PageCount,
	}
	if v.Image != nil && v.Image.URL != "" {
		c.Thumbnail = v.Image.URL
	}
	if v.Volume != nil {
		c.Series = Series{Name: v.Volume.Name, ResourceURI: v.Volume.APIDetailURL}
		if c.Title == "" {
			c.Title = v.Volume.Name
		}
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	c.Creators.Items = make([]Creator, 0, len(v.PersonCredits))
	for _, p := range v.PersonCredits {
		// A person may hold several comma-separated roles in one credit.
		role := orUnknown(strings.TrimSpace(p.Role))
		c.Creators.Items = append(c.Creators.Items, Creator{
			Role: role,
			Name: orUnknown(p.Name),
		})
	}
	return c
}

func parseIssueNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return n
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
