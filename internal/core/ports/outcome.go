package ports

// ErrorMessage is a general, non field-specific failure.
type ErrorMessage struct {
	Message string `json:"message"`
}

// State is what a form action hands back for re-display.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   *ErrorMessage       `json:"error,omitempty"`
}

// OutcomeKind tells the transport how to finish the request.
type OutcomeKind int

const (
	// OutcomeRendered re-renders the current page with State.
	OutcomeRendered OutcomeKind = iota
	// OutcomeErrors re-renders the form with the failure in State.
	OutcomeErrors
	// OutcomeRedirect navigates to RedirectTo. It is the success signal of
	// create and update and carries no State.
	OutcomeRedirect
)

// Outcome is the result of a form action.
type Outcome struct {
	Kind       OutcomeKind
	RedirectTo string
	State      State
}

func Redirect(path string) Outcome {
	return Outcome{Kind: OutcomeRedirect, RedirectTo: path}
}

func Errors(state State) Outcome {
	return Outcome{Kind: OutcomeErrors, State: state}
}

func Rendered(state State) Outcome {
	return Outcome{Kind: OutcomeRendered, State: state}
}
