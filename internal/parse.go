package internal

import (
	"encoding/json"
	"fmt"

	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// Parser decodes raw forest nodes into comment payloads.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseComment extracts a CommentData from a Thing of kind "t1" and
// attaches the reply Things found in its raw replies field.
func (p *Parser) ParseComment(thing *types.Thing) (*types.CommentData, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != types.KindComment {
		return nil, fmt.Errorf("expected %s (Comment), got %s", types.KindComment, thing.Kind)
	}

	var comment types.CommentData
	if err := json.Unmarshal(thing.Data, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse Comment data: %w", err)
	}
	if comment.ID == "" {
		comment.ID = thing.ID
	}
	if comment.Name == "" {
		comment.Name = thing.Name
	}

	replies, err := p.parseReplies(thing.Data)
	if err != nil {
		return nil, err
	}
	comment.Replies = replies

	return &comment, nil
}

// parseReplies handles the replies field, which Reddit sends as either a
// Listing Thing or an empty string when there are no replies.
func (p *Parser) parseReplies(data json.RawMessage) ([]*types.Thing, error) {
	var rawData struct {
		Replies json.RawMessage `json:"replies"`
	}
	if err := json.Unmarshal(data, &rawData); err != nil {
		return nil, fmt.Errorf("failed to read replies field: %w", err)
	}
	if len(rawData.Replies) == 0 || string(rawData.Replies) == `""` || string(rawData.Replies) == "null" {
		return nil, nil
	}

	var repliesThing types.Thing
	if err := json.Unmarshal(rawData.Replies, &repliesThing); err != nil {
		return nil, fmt.Errorf("failed to parse replies listing: %w", err)
	}
	if repliesThing.Kind != "Listing" {
		return nil, nil
	}

	var listing types.ListingData
	if err := json.Unmarshal(repliesThing.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse replies listing data: %w", err)
	}

	var result []*types.Thing
	for _, child := range listing.Children {
		if child == nil {
			continue
		}
		switch child.Kind {
		case types.KindComment, types.KindMore:
			// The ID usually lives inside the data payload; lift it onto
			// the Thing so parent lookups can key on it.
			if child.ID == "" || child.Name == "" {
				var td types.ThingData
				if err := json.Unmarshal(child.Data, &td); err == nil {
					if child.ID == "" {
						child.ID = td.ID
					}
					if child.Name == "" {
						child.Name = td.Name
					}
				}
			}
			result = append(result, child)
		}
	}
	return result, nil
}
