// File: internal/comic/model.go
package comic

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultDescription substitutes a missing upstream description.
	DefaultDescription = "No description available"
	// PlaceholderThumbnail is served when the upstream has no usable cover.
	PlaceholderThumbnail = "/comic-placeholder.jpg"
)

// Creator is a single role/name credit pair.
type Creator struct {
	Role string `bson:"role" json:"role"`
	Name string `bson:"name" json:"name"`
}

// CreatorList wraps creators in an "items" envelope. The envelope is part of
// the stored document shape and of the API responses consumed by the frontend.
type CreatorList struct {
	Items []Creator `bson:"items" json:"items"`
}

// Series identifies the series a comic belongs to.
type Series struct {
	Name        string `bson:"name" json:"name"`
	ResourceURI string `bson:"resourceURI,omitempty" json:"resourceURI,omitempty"`
}

// Comic is the canonical comic record. Both upstream catalog schemas are
// adapted into this one shape before anything is stored or returned.
type Comic struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ExternalID  int64              `bson:"externalId,omitempty" json:"externalId,omitempty"`
	Title       string             `bson:"title" json:"title"`
	IssueNumber float64            `bson:"issueNumber" json:"issueNumber"`
	Description string             `bson:"description" json:"description"`
	Creators    CreatorList        `bson:"creators" json:"creators"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Series      Series             `bson:"series" json:"series"`
	Variant     bool               `bson:"variant" json:"variant"`
	PgCount     int                `bson:"pgCount" json:"pgCount"`
}
