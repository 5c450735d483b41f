package flow

import "strings"

// Shared choice sets. Values double as button payloads and persisted text.
var (
	branchChoices = []Choice{
		{Label: "Main Branch", Value: "Main Branch"},
		{Label: "Branch 2", Value: "Branch 2"},
		{Label: "Branch 3", Value: "Branch 3"},
	}
	serviceChoices = []Choice{
		{Label: "Gym Trial", Value: "Gym Trial"},
		{Label: "Personal Training", Value: "Personal Training"},
		{Label: "Diet Plan", Value: "Diet Plan"},
		{Label: "Transformation Program", Value: "Transformation Program"},
	}
	goalChoices = []Choice{
		{Label: "Lose weight", Value: "Lose weight"},
		{Label: "Build muscle", Value: "Build muscle"},
		{Label: "Stay fit", Value: "Stay fit"},
	}
	experienceChoices = []Choice{
		{Label: "Beginner", Value: "Beginner"},
		{Label: "Intermediate", Value: "Intermediate"},
		{Label: "Advanced", Value: "Advanced"},
	}
	preferredTimeChoices = []Choice{
		{Label: "Morning", Value: "Morning"},
		{Label: "Afternoon", Value: "Afternoon"},
		{Label: "Evening", Value: "Evening"},
	}
	interestChoices = []Choice{
		{Label: "Membership", Value: "Membership"},
		{Label: "Group classes", Value: "Group classes"},
		{Label: "Personal coaching", Value: "Personal coaching"},
	}
)

var basicVariant = Variant{
	Name: "basic",
	Steps: []Step{
		{
			Field:    FieldName,
			Prompt:   "Welcome! What's your name?",
			Mode:     ModeText,
			Validate: ValidateNonEmpty,
		},
		{
			Field:    FieldPhone,
			Prompt:   "Nice to meet you! Please share your 10-digit phone number.",
			Mode:     ModeText,
			Validate: ValidatePhone,
		},
		{
			Field:   FieldBranch,
			Prompt:  "Which branch is most convenient for you?",
			Mode:    ModeChoice,
			Choices: branchChoices,
		},
		{
			Field:   FieldService,
			Prompt:  "Great! Which service are you interested in?",
			Mode:    ModeChoice,
			Choices: serviceChoices,
		},
	},
	// Matches the deployed sheet header: service precedes branch even though
	// the branch question is asked first.
	Columns: []string{"timestamp", "name", "phone", "service", "branch", "user_id"},
}

var extendedVariant = Variant{
	Name: "extended",
	Steps: []Step{
		{
			Field:    FieldName,
			Prompt:   "Welcome! What's your name?",
			Mode:     ModeText,
			Validate: ValidateNonEmpty,
		},
		{
			Field:    FieldPhone,
			Prompt:   "Nice to meet you! Please share your 10-digit phone number.",
			Mode:     ModeText,
			Validate: ValidatePhone,
		},
		{
			Field:   FieldGoal,
			Prompt:  "What's your main fitness goal?",
			Mode:    ModeChoice,
			Choices: goalChoices,
		},
		{
			Field:   FieldExperience,
			Prompt:  "How would you rate your training experience?",
			Mode:    ModeChoice,
			Choices: experienceChoices,
		},
		{
			Field:   FieldPreferredTime,
			Prompt:  "When do you prefer to train?",
			Mode:    ModeChoice,
			Choices: preferredTimeChoices,
		},
		{
			Field:   FieldInterest,
			Prompt:  "What are you most interested in?",
			Mode:    ModeChoice,
			Choices: interestChoices,
		},
		{
			Field:    FieldInjuryNote,
			Prompt:   "Any injuries or conditions we should know about? (type 'none' if not)",
			Mode:     ModeText,
			Validate: ValidateNonEmpty,
		},
		{
			Field:   FieldBranch,
			Prompt:  "Which branch is most convenient for you?",
			Mode:    ModeChoice,
			Choices: branchChoices,
		},
		{
			Field:   FieldService,
			Prompt:  "Great! Which service are you interested in?",
			Mode:    ModeChoice,
			Choices: serviceChoices,
		},
	},
	Columns: []string{
		"timestamp", "name", "phone", "goal", "experience", "preferred_time",
		"interest", "injury_note", "service", "branch", "user_id",
	},
}

// VariantByName resolves a configured variant name.
func VariantByName(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "basic":
		return basicVariant, nil
	case "extended":
		return extendedVariant, nil
	}
	return Variant{}, ErrUnknownVariant
}
