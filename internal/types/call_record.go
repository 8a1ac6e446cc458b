package types

// RawLead is a lead record as stored by the lead source. Most fields are
// optional and several have alternate names; normalize.ParseLead resolves them.
type RawLead struct {
	DateKey         string `json:"dateKey,omitempty" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	LeadID          string `json:"id,omitempty" dynamodbav:"LeadID"`       // sort key
	UTMSource       string `json:"utm_source" dynamodbav:"utm_source"`     // call center key
	Timestampz      string `json:"timestampz,omitempty" dynamodbav:"timestampz,omitempty"`
	CreatedAt       string `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	CID             string `json:"cid,omitempty" dynamodbav:"cid,omitempty"`
	ClickID         string `json:"click_id,omitempty" dynamodbav:"click_id,omitempty"`
	PhoneNumberNorm string `json:"phone_number_norm,omitempty" dynamodbav:"phone_number_norm,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty" dynamodbav:"phone_number,omitempty"`
}

// RawCall is a call record as stored by the call tracking source
type RawCall struct {
	DateKey       string `json:"dateKey,omitempty" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	CallID        string `json:"id,omitempty" dynamodbav:"CallID"`       // sort key
	CallCenter    string `json:"call_center" dynamodbav:"call_center"`
	CallDate      string `json:"call_date,omitempty" dynamodbav:"call_date,omitempty"`
	CreatedAt     string `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	CallerPhone   string `json:"caller_phone,omitempty" dynamodbav:"caller_phone,omitempty"`
	ClickID       string `json:"click_id,omitempty" dynamodbav:"click_id,omitempty"`
	PublisherName string `json:"publisher_name,omitempty" dynamodbav:"publisher_name,omitempty"` // "SMS" style labels mark recovery contacts
	CCNumber      string `json:"CC_Number,omitempty" dynamodbav:"CC_Number,omitempty"`           // DID that was dialed
}
