package css

// Message is a warning or error reported by the CSS validator.
type Message struct {
	Source  string  `json:"source"`
	Message string  `json:"message"`
	Line    int     `json:"line"`
	Type    string  `json:"type"`
	Level   *int    `json:"level,omitempty"`
	Context *string `json:"context,omitempty"`
}

// Counts is the summary the server reports next to the messages.
type Counts struct {
	ErrorCount   int `json:"errorcount"`
	WarningCount int `json:"warningcount"`
}

// Validation is the report for one style sheet.
type Validation struct {
	URI       string `json:"uri"`
	CheckedBy string `json:"checkedby"`
	CSSLevel  string `json:"csslevel"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	// Validity is the server's own verdict. IsValid does not consult it.
	Validity bool      `json:"validity"`
	Result   Counts    `json:"result"`
	Warnings []Message `json:"warnings,omitempty"`
	Errors   []Message `json:"errors,omitempty"`
}

// IsValid reports whether the error list is absent or empty, whatever the
// server put in Validity and Result.
func (v *Validation) IsValid() bool {
	return len(v.Errors) == 0
}

// Result is the validator output envelope.
type Result struct {
	CSSValidation Validation `json:"cssvalidation"`
}

func (r *Result) IsValid() bool {
	return r.CSSValidation.IsValid()
}
