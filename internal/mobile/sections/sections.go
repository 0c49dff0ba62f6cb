// Package sections groups flat item lists into titled sections for
// section-list rendering.
package sections

// Section is one titled group of items. Title is nil for items whose
// extractor returned no title; those group together under the nil title.
type Section[T any] struct {
	Title *string `json:"title"`
	Data  []T     `json:"data"`
}

// Generate groups items by the title the extractor yields for each one.
// Sections appear in the order their titles are first encountered, and items
// keep their input order within a section. The input slice is not modified.
func Generate[T any](items []T, titleOf func(T) *string) []Section[T] {
	sections := make([]Section[T], 0, len(items))
	index := make(map[string]int)
	nilIndex := -1

	for _, item := range items {
		title := titleOf(item)

		if title == nil {
			if nilIndex < 0 {
				nilIndex = len(sections)
				sections = append(sections, Section[T]{Title: nil})
			}
			sections[nilIndex].Data = append(sections[nilIndex].Data, item)
			continue
		}

		i, seen := index[*title]
		if !seen {
			i = len(sections)
			index[*title] = i
			titleCopy := *title
			sections = append(sections, Section[T]{Title: &titleCopy})
		}
		sections[i].Data = append(sections[i].Data, item)
	}

	return sections
}
