// internal/stages/extract-request/models.go
package extractrequest

// Extraction paths recorded on the structured request.
const (
	PathModel   = "llm"
	PathKeyword = "keyword"
	PathEmpty   = "empty"
)

type Input struct {
	Query  string `json:"query"`
	Locale string `json:"locale"`
}
