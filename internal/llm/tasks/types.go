package tasks

import (
	"bookdesk/internal/llm"
)

// Order Extraction Task Types

// ExtractOrderInput is the input for the order field extraction task.
type ExtractOrderInput struct {
	Transcript []llm.Message
}

// ExtractOrderOutput is the snapshot candidate returned by the extraction task.
// Pointer fields distinguish "not provided" from zero values. NoChange signals
// that the extractor detected ambiguity and the order state must not be touched.
type ExtractOrderOutput struct {
	CustomerName *string `json:"customer_name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	BookID       *int64  `json:"book_id"`
	Quantity     *int64  `json:"quantity"`
	Confirmed    bool    `json:"confirmed"`
	NoChange     bool    `json:"no_change"`
}

// Response Composition Task Types

// ComposeReplyInput is the input for the customer-facing response task.
type ComposeReplyInput struct {
	Transcript []llm.Message
}

// ComposeReplyOutput is the composed message.
type ComposeReplyOutput struct {
	Reply string
}

// Intent Classification Task Types

// Intent labels returned by the classifier.
const (
	IntentLookup    = "lookup"
	IntentRecommend = "recommend"
	IntentOrder     = "order"
	IntentNone      = "none"
)

// ClassifyIntentInput is the input for the intent classification task.
type ClassifyIntentInput struct {
	History []llm.Message
	Request string
}

// ClassifyIntentOutput is the classified intent.
type ClassifyIntentOutput struct {
	Intent string
}

// Catalog Lookup Task Types

// LookupQueryInput is the input for the question-to-SQL translation task.
type LookupQueryInput struct {
	Question string
}

// LookupQueryOutput is the generated read-only query.
type LookupQueryOutput struct {
	Query     string `json:"query"`
	Reasoning string `json:"reasoning"`
}
