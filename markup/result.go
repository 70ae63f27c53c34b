package markup

// Message kinds reported by the Nu Html Checker.
const (
	KindError   = "error"
	KindWarning = "warning"
	KindInfo    = "info"
)

// Message is one entry of the checker output. Location fields are nil when the
// checker does not report them.
type Message struct {
	Type         string  `json:"type"`
	SubType      *string `json:"subType,omitempty"`
	Message      string  `json:"message"`
	Extract      *string `json:"extract,omitempty"`
	FirstLine    *int    `json:"firstLine,omitempty"`
	LastLine     *int    `json:"lastLine,omitempty"`
	FirstColumn  *int    `json:"firstColumn,omitempty"`
	LastColumn   *int    `json:"lastColumn,omitempty"`
	HiliteStart  *int    `json:"hiliteStart,omitempty"`
	HiliteLength *int    `json:"hiliteLength,omitempty"`
}

func (m Message) IsError() bool { return m.Type == KindError }

func (m Message) IsWarning() bool { return m.Type == KindWarning }

func (m Message) IsInfo() bool { return m.Type == KindInfo }

// Highlight returns the highlighted part of the extract, if the checker
// reported one.
func (m Message) Highlight() (string, bool) {
	if m.Extract == nil || m.HiliteStart == nil || m.HiliteLength == nil {
		return "", false
	}
	r := []rune(*m.Extract)
	start, n := *m.HiliteStart, *m.HiliteLength
	if start < 0 || n < 0 || start+n > len(r) {
		return "", false
	}
	return string(r[start : start+n]), true
}

// Result is the checker output for one document. URL is nil for documents
// submitted as text.
type Result struct {
	URL      *string   `json:"url,omitempty"`
	Messages []Message `json:"messages"`
	Language *string   `json:"language,omitempty"`
}

// IsValid reports whether no message is an error. Warnings and info messages
// do not count.
func (r *Result) IsValid() bool {
	for _, m := range r.Messages {
		if m.IsError() {
			return false
		}
	}
	return true
}

// Errors returns the error messages in server order.
func (r *Result) Errors() []Message {
	return r.filter(Message.IsError)
}

// Warnings returns the warning messages in server order.
func (r *Result) Warnings() []Message {
	return r.filter(Message.IsWarning)
}

func (r *Result) filter(keep func(Message) bool) []Message {
	var out []Message
	for _, m := range r.Messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
