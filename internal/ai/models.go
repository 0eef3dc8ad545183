package ai

// estimatePayload captures the structured output from the model.
type estimatePayload struct {
	// BasePrice is the model's suggested base in whole dollars.
	BasePrice int64 `json:"base_price"`

	// AdditionalFees is the suggested fee component in whole dollars.
	AdditionalFees int64 `json:"additional_fees"`

	// Total is the suggested all-in price in whole dollars.
	Total int64 `json:"total"`

	// Factors are short human-readable justifications for the price.
	Factors []string `json:"factors"`

	// Confidence is the model's self-reported confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}
