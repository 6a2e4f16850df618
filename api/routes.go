package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// SurveyEndpoint returns the survey document
	SurveyEndpoint = "/survey"
	// SurveyStatsEndpoint returns the survey statistics
	SurveyStatsEndpoint = "/survey/stats"
	// SurveyResultsEndpoint returns the encrypted result summary
	SurveyResultsEndpoint = "/survey/results"
	// TopOptionsEndpoint returns the non-empty option indices, in storage order
	TopOptionsEndpoint = "/survey/results/top"
	// OptionURLParam identifies an option by its index
	OptionURLParam = "optionIndex"
	// OptionEndpoint returns one option label
	OptionEndpoint = "/survey/options/{" + OptionURLParam + "}"
	// TalliesEndpoint returns all encrypted tallies
	TalliesEndpoint = "/survey/tallies"
	// TallyEndpoint returns one encrypted tally
	TallyEndpoint = "/survey/tallies/{" + OptionURLParam + "}"
	// SurveyCloseEndpoint closes the survey (admin)
	SurveyCloseEndpoint = "/survey/close"
	// SurveyReopenEndpoint reopens the survey (admin)
	SurveyReopenEndpoint = "/survey/reopen"
	// SurveyDeadlineEndpoint extends the deadline (admin)
	SurveyDeadlineEndpoint = "/survey/deadline"
	// ResponsesEndpoint submits a single response
	ResponsesEndpoint = "/responses"
	// BatchResponsesEndpoint submits a batch response
	BatchResponsesEndpoint = "/responses/batch"
	// WithdrawEndpoint withdraws the caller's response
	WithdrawEndpoint = "/responses/withdraw"
	// AddressURLParam identifies a principal by its address
	AddressURLParam = "address"
	// ParticipantEndpoint returns a participant's response status and votes
	ParticipantEndpoint = "/participants/{" + AddressURLParam + "}"
	// ViewersEndpoint lists (GET) or authorizes (POST, admin) viewers
	ViewersEndpoint = "/viewers"
	// ViewerEndpoint returns the details of one viewer
	ViewerEndpoint = "/viewers/{" + AddressURLParam + "}"
	// ViewersRevokeEndpoint revokes a viewer (admin)
	ViewersRevokeEndpoint = "/viewers/revoke"
	// ViewersAccessEndpoint self-registers the caller as a basic viewer
	ViewersAccessEndpoint = "/viewers/access"
	// EventsEndpoint returns the persisted event log
	EventsEndpoint = "/events"
)
