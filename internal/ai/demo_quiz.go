package ai

// demoQuestions is the hardcoded fallback bank served when generation or
// parsing fails. Physics, to match the seeded default documents.
var demoQuestions = []Question{
	{
		ID:       "q1",
		Type:     TypeMCQ,
		Question: "What is Newton's First Law of Motion?",
		Options: []string{
			"An object at rest stays at rest unless acted upon by force",
			"Force equals mass times acceleration",
			"Every action has an equal and opposite reaction",
			"Energy cannot be created or destroyed",
		},
		Answer:      0,
		Explanation: "Newton's First Law states that an object will remain at rest or in uniform motion unless acted upon by an external force.",
	},
	{
		ID:       "q2",
		Type:     TypeMCQ,
		Question: "What does F=ma represent?",
		Options: []string{
			"Force equals momentum times acceleration",
			"Force equals mass times acceleration",
			"Force equals mass times area",
			"Force equals motion times amplitude",
		},
		Answer:      1,
		Explanation: "F=ma is Newton's Second Law, where Force equals mass multiplied by acceleration.",
	},
	{
		ID:          "q3",
		Type:        TypeMCQ,
		Question:    "What is the SI unit of force?",
		Options:     []string{"Joule", "Newton", "Watt", "Pascal"},
		Answer:      1,
		Explanation: "The Newton (N) is the SI unit of force, named after Isaac Newton.",
	},
	{
		ID:       "q4",
		Type:     TypeMCQ,
		Question: "What is acceleration?",
		Options: []string{
			"The rate of change of velocity",
			"The rate of change of distance",
			"The total distance traveled",
			"The force applied to an object",
		},
		Answer:      0,
		Explanation: "Acceleration is defined as the rate of change of velocity with respect to time.",
	},
	{
		ID:       "q5",
		Type:     TypeMCQ,
		Question: "What is kinetic energy?",
		Options: []string{
			"Energy stored in an object",
			"Energy of motion",
			"Energy from heat",
			"Energy from light",
		},
		Answer:      1,
		Explanation: "Kinetic energy is the energy an object possesses due to its motion.",
	},
	{
		ID:       "q6",
		Type:     TypeMCQ,
		Question: "What is potential energy?",
		Options: []string{
			"Energy of motion",
			"Energy stored due to position",
			"Energy from electricity",
			"Energy from friction",
		},
		Answer:      1,
		Explanation: "Potential energy is stored energy that depends on the position or configuration of an object.",
	},
	{
		ID:       "q7",
		Type:     TypeMCQ,
		Question: "What is the law of conservation of energy?",
		Options: []string{
			"Energy can be created from nothing",
			"Energy can be destroyed",
			"Energy cannot be created or destroyed",
			"Energy always increases",
		},
		Answer:      2,
		Explanation: "The law of conservation of energy states that energy cannot be created or destroyed, only transformed.",
	},
	{
		ID:       "q8",
		Type:     TypeMCQ,
		Question: "What is friction?",
		Options: []string{
			"A force that helps motion",
			"A force that opposes motion",
			"A type of acceleration",
			"A form of energy",
		},
		Answer:      1,
		Explanation: "Friction is a force that opposes the relative motion between two surfaces in contact.",
	},
	{
		ID:       "q9",
		Type:     TypeMCQ,
		Question: "What is gravity?",
		Options: []string{
			"A pushing force",
			"An attractive force between masses",
			"A type of friction",
			"An electrical force",
		},
		Answer:      1,
		Explanation: "Gravity is an attractive force that exists between any two masses.",
	},
	{
		ID:       "q10",
		Type:     TypeMCQ,
		Question: "What is velocity?",
		Options: []string{
			"Speed in a specific direction",
			"Total distance traveled",
			"Force applied to object",
			"Rate of acceleration",
		},
		Answer:      0,
		Explanation: "Velocity is speed in a specific direction, making it a vector quantity.",
	},
}

// DemoQuiz returns up to count questions from the fallback bank.
func DemoQuiz(count int) []Question {
	if count <= 0 || count > len(demoQuestions) {
		count = len(demoQuestions)
	}
	out := make([]Question, count)
	copy(out, demoQuestions[:count])
	return out
}
