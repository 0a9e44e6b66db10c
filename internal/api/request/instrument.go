package request

// CreateInstrumentRequest represents the request body for registering an instrument
type CreateInstrumentRequest struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	Currency  string `json:"currency"`
	Issuer    string `json:"issuer"`
	Rating    string `json:"rating"`
	RiskLevel int    `json:"riskLevel"`
	Liquidity string `json:"liquidity"`
}

// UpdateInstrumentRequest carries the fields to change; nil fields are left untouched.
type UpdateInstrumentRequest struct {
	Name      *string `json:"name,omitempty"`
	Class     *string `json:"class,omitempty"`
	Currency  *string `json:"currency,omitempty"`
	Issuer    *string `json:"issuer,omitempty"`
	Rating    *string `json:"rating,omitempty"`
	RiskLevel *int    `json:"riskLevel,omitempty"`
	Liquidity *string `json:"liquidity,omitempty"`
}
