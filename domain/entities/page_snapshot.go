package entities

// ButtonInfo describes a button-like element found on the page
type ButtonInfo struct {
	Text  string `json:"text"`
	ID    string `json:"id"`
	Class string `json:"class"`
	Tag   string `json:"tag"`
}

// InputInfo describes an input field found on the page
type InputInfo struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
}

// PageSnapshot - captured state of the current page. Element lists are
// bounded to the configured cap at capture time, never here.
type PageSnapshot struct {
	URL             string       `json:"url"`
	Title           string       `json:"title"`
	Buttons         []ButtonInfo `json:"buttons"`
	Inputs          []InputInfo  `json:"inputs"`
	BodyTextPreview string       `json:"body_text_preview"`
}

func (PageSnapshot) PayloadKind() ActionKind { return ActionCapture }
