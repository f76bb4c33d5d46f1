package services

import "github.com/teamlog/logcabin/models"

// TagStyleGroup is one bucket of the grouped project tagging view.
type TagStyleGroup struct {
	TagStyle models.TagStyle  `json:"tag_style"`
	Taggings []models.Tagging `json:"taggings"`
}

// GroupTaggingsByStyle buckets taggings by their tag style, preserving the
// order in which each style is first seen in the input.
func GroupTaggingsByStyle(taggings []models.Tagging) []TagStyleGroup {
	groups := make([]TagStyleGroup, 0)
	index := make(map[uint]int)

	for _, t := range taggings {
		i, ok := index[t.TagStyleID]
		if !ok {
			i = len(groups)
			index[t.TagStyleID] = i
			groups = append(groups, TagStyleGroup{TagStyle: t.TagStyle})
		}
		groups[i].Taggings = append(groups[i].Taggings, t)
	}
	return groups
}
