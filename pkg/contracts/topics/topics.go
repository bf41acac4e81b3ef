package topics

const (
	// Resultados e odds (publicados pelo admin-service)
	ResultEntered = "result_entered"
	ResultRemoved = "result_removed"
	OddsUpdated   = "odds_updated"

	// Picks
	PickSubmitted = "pick_submitted"

	// DLQs
	ResultEnteredDLQ = "result_entered_dlq"
	OddsUpdatedDLQ   = "odds_updated_dlq"
)
