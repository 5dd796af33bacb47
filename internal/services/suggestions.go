// suggestions.go
//
// Room scanning and affiliate product recommendation data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of roomscan-api.
// roomscan-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// roomscan-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with roomscan-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"github.com/localnerve/roomscan-api/internal/models"
)

// unknownCategory is counted for items submitted without a category
const unknownCategory = "unknown"

// SuggestionDraft is a suggestion before it is attached to a room
type SuggestionDraft struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// Census counts a room's items by category
type Census struct {
	Total      int
	ByCategory map[string]int
}

// Count returns the number of items in category
func (c Census) Count(category string) int {
	return c.ByCategory[category]
}

// TakeCensus builds a Census from item categories
func TakeCensus(categories []string) Census {
	census := Census{Total: len(categories), ByCategory: make(map[string]int)}
	for _, category := range categories {
		if category == "" {
			category = unknownCategory
		}
		census.ByCategory[category]++
	}
	return census
}

// SuggestionRule emits Draft when Applies holds for a room's census
type SuggestionRule struct {
	Name    string
	Applies func(Census) bool
	Draft   SuggestionDraft
}

// OrganizationRules are evaluated independently, in order
var OrganizationRules = []SuggestionRule{
	{
		Name:    "many-loose-items",
		Applies: func(c Census) bool { return c.Total > 3 },
		Draft: SuggestionDraft{
			Type:        models.SuggestionStorage,
			Title:       "Add storage bins for loose items",
			Description: "This will help reduce clutter and make items easier to find",
			Priority:    models.PriorityHigh,
		},
	},
	{
		Name:    "little-storage",
		Applies: func(c Census) bool { return c.Count(models.CategoryStorage) < 2 },
		Draft: SuggestionDraft{
			Type:        models.SuggestionFurniture,
			Title:       "Consider a bookshelf for better organization",
			Description: "Vertical storage maximizes space efficiency",
			Priority:    models.PriorityMedium,
		},
	},
	{
		Name:    "much-furniture",
		Applies: func(c Census) bool { return c.Count(models.CategoryFurniture) > 2 },
		Draft: SuggestionDraft{
			Type:        models.SuggestionOrganization,
			Title:       "Use drawer organizers for small items",
			Description: "Keep frequently used items easily accessible",
			Priority:    models.PriorityMedium,
		},
	},
	{
		Name:    "no-lighting",
		Applies: func(c Census) bool { return c.Count(models.CategoryLighting) == 0 },
		Draft: SuggestionDraft{
			Type:        models.SuggestionLighting,
			Title:       "Improve lighting for better visibility",
			Description: "Good lighting makes organization and daily tasks easier",
			Priority:    models.PriorityLow,
		},
	},
}

// GenerateSuggestions applies OrganizationRules to the item categories of a room.
// The result depends only on the category multiset.
func GenerateSuggestions(categories []string) []SuggestionDraft {
	return applyRules(OrganizationRules, TakeCensus(categories))
}

func applyRules(rules []SuggestionRule, census Census) []SuggestionDraft {
	drafts := make([]SuggestionDraft, 0, len(rules))
	for _, rule := range rules {
		if rule.Applies(census) {
			drafts = append(drafts, rule.Draft)
		}
	}
	return drafts
}

// Suggestions converts drafts to unsaved room suggestions
func Suggestions(drafts []SuggestionDraft) []models.OrganizationSuggestion {
	out := make([]models.OrganizationSuggestion, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, models.OrganizationSuggestion{
			SuggestionType: d.Type,
			Title:          d.Title,
			Description:    d.Description,
			Priority:       d.Priority,
		})
	}
	return out
}
