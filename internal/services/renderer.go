package services

import (
	"encoding/json"
	"strings"

	"github.com/Lllllllleong/docanalyzer/internal/models"
)

// EntityScoreThreshold is the minimum confidence an entity needs to be
// shown. Entities strictly below it are dropped.
const EntityScoreThreshold = 0.80

// RenderedResult is the display form of a result blob. Either the three
// parsed fields are set, or Raw carries the body verbatim (placeholder
// results and anything that failed to parse).
type RenderedResult struct {
	WordCount string
	Sentiment string
	Groups    []models.EntityGroup
	Raw       string
}

// RenderResult parses a result blob body into its display form. It never
// fails: a body that doesn't follow the three-line format is passed through
// as-is.
func RenderResult(body string) RenderedResult {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "Word count:") {
		return RenderedResult{Raw: body}
	}

	result := RenderedResult{
		WordCount: lines[0],
		Sentiment: lines[1],
	}

	if len(lines) > 2 {
		entityJSON := lines[2]
		if idx := strings.Index(entityJSON, "Entities:"); idx >= 0 {
			entityJSON = entityJSON[idx+len("Entities:"):]
		}
		var entities []models.Entity
		if err := json.Unmarshal([]byte(strings.TrimSpace(entityJSON)), &entities); err != nil {
			return RenderedResult{Raw: body}
		}
		result.Groups = groupEntities(entities)
	}

	return result
}

// groupEntities drops low-confidence entities and groups the rest by type,
// preserving first-seen type order and within-type insertion order.
func groupEntities(entities []models.Entity) []models.EntityGroup {
	var groups []models.EntityGroup
	index := make(map[string]int)

	for _, entity := range entities {
		if entity.Score < EntityScoreThreshold {
			continue
		}
		entityType := entity.Type
		if entityType == "" {
			entityType = "UNKNOWN"
		}
		i, seen := index[entityType]
		if !seen {
			index[entityType] = len(groups)
			groups = append(groups, models.EntityGroup{Type: entityType})
			i = len(groups) - 1
		}
		groups[i].Texts = append(groups[i].Texts, entity.Text)
	}
	return groups
}
