package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// BuildEventFilter combines the optional category and time facets with AND.
// A missing facet places no restriction, so two empty lists match every event.
func BuildEventFilter(categories, times string, now time.Time) (bson.M, error) {
	var facets []bson.M

	if names := SplitList(categories); len(names) > 0 {
		in := make([]string, 0, len(names))
		for _, name := range names {
			c, ok := models.ParseCategory(name)
			if !ok {
				return nil, fmt.Errorf("%w: unrecognized category %q", models.ErrValidation, name)
			}
			in = append(in, string(c))
		}
		facets = append(facets, bson.M{"category": bson.M{"$in": in}})
	}

	if windows := ResolveTimeWindows(SplitList(times), now); len(windows) > 0 {
		ranges := make([]bson.M, 0, len(windows))
		for _, w := range windows {
			ranges = append(ranges, bson.M{"date": bson.M{"$gte": w.Start, "$lte": w.End}})
		}
		facets = append(facets, bson.M{"$or": ranges})
	}

	switch len(facets) {
	case 0:
		return bson.M{}, nil
	case 1:
		return facets[0], nil
	default:
		return bson.M{"$and": facets}, nil
	}
}

// SplitList splits a comma separated query value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
