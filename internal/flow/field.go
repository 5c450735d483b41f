package flow

// Field names a single piece of lead data collected during the dialogue.
type Field string

const (
	FieldName          Field = "name"
	FieldPhone         Field = "phone"
	FieldGoal          Field = "goal"
	FieldExperience    Field = "experience"
	FieldPreferredTime Field = "preferred_time"
	FieldInterest      Field = "interest"
	FieldInjuryNote    Field = "injury_note"
	FieldBranch        Field = "branch"
	FieldService       Field = "service"
)
