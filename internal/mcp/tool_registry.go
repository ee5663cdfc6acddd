package mcp

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// ToolCategory groups tools by the part of Trakt they address.
type ToolCategory string

const (
	CategoryAuth     ToolCategory = "auth"
	CategoryShows    ToolCategory = "shows"
	CategoryMovies   ToolCategory = "movies"
	CategorySearch   ToolCategory = "search"
	CategoryComments ToolCategory = "comments"
	CategoryUser     ToolCategory = "user"
	CategorySync     ToolCategory = "sync"
)

// ToolMetadata describes a registered tool.
type ToolMetadata struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    ToolCategory `json:"category"`

	// RequiresAuth marks tools that need a stored user token.
	RequiresAuth bool `json:"requires_auth"`

	Keywords []string `json:"keywords,omitempty"`
}

// ToolRegistry keeps metadata about registered tools for listing and
// discovery.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*ToolMetadata
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*ToolMetadata)}
}

// Register adds tool, replacing any tool of the same name.
func (r *ToolRegistry) Register(tool *ToolMetadata) {
	if tool == nil || tool.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
}

// Get returns the metadata for name.
func (r *ToolRegistry) Get(name string) (*ToolMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all tools sorted by category, then name.
func (r *ToolRegistry) List() []*ToolMetadata {
	r.mu.RLock()
	result := make([]*ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b *ToolMetadata) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
	return result
}

// ListByCategory returns the tools in category sorted by name.
func (r *ToolRegistry) ListByCategory(category ToolCategory) []*ToolMetadata {
	var result []*ToolMetadata
	for _, tool := range r.List() {
		if tool.Category == category {
			result = append(result, tool)
		}
	}
	return result
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// SearchResult is a tool matched by Search.
type SearchResult struct {
	Tool *ToolMetadata `json:"tool"`

	// Score is 3 for an exact name match, 2 when the name matches and 1
	// when only the description or a keyword does.
	Score int `json:"score"`

	MatchReason string `json:"match_reason"`
}

// Search matches query case-insensitively against names, descriptions
// and keywords. A query that compiles as a regular expression is also
// applied as one.
func (r *ToolRegistry) Search(query string) []*SearchResult {
	if query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)
	re, _ := regexp.Compile("(?i)" + query)
	matches := func(s string) bool {
		return strings.Contains(strings.ToLower(s), queryLower) || (re != nil && re.MatchString(s))
	}

	var results []*SearchResult
	for _, tool := range r.List() {
		switch {
		case strings.ToLower(tool.Name) == queryLower:
			results = append(results, &SearchResult{Tool: tool, Score: 3, MatchReason: "exact name match"})
		case matches(tool.Name):
			results = append(results, &SearchResult{Tool: tool, Score: 2, MatchReason: "name matches query"})
		case matches(tool.Description):
			results = append(results, &SearchResult{Tool: tool, Score: 1, MatchReason: "description matches query"})
		case slices.ContainsFunc(tool.Keywords, matches):
			results = append(results, &SearchResult{Tool: tool, Score: 1, MatchReason: "keyword matches query"})
		}
	}

	slices.SortStableFunc(results, func(a, b *SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}
