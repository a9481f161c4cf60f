// Package domain defines the normalized types exchanged with the GitHub search API.
// These types describe what the search service returns, independent of the GraphQL shape.
package domain

// RawRepo is a repository as returned by the search service.
// Both fields are nullable on the wire and may be missing or blank.
type RawRepo struct {
	Name    *string // Repository name (e.g., "bubbletea")
	HTMLURL *string // Browser URL (e.g., "https://github.com/charmbracelet/bubbletea")
}

// SearchBody is the payload of a successful search call.
type SearchBody struct {
	TotalCount int       // Total number of matches reported by the service
	Items      []RawRepo // Nil when the service returned no item list
}

// SearchResponse is the outcome of one search call.
type SearchResponse struct {
	Successful bool        // False on transport, HTTP or API failure
	Message    string      // Status message; describes the failure when Successful is false
	Body       *SearchBody // Nil when the service returned no body
}

// StringPtr returns a pointer to s. Used to build RawRepo values.
func StringPtr(s string) *string {
	return &s
}
