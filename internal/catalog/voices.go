package catalog

// builtinPersonas is the fixed catalog of prebuilt synthesis voices.
var builtinPersonas = []Persona{
	{
		Name:    "Zephyr",
		Tagline: "Bright and breezy",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "high",
			Characteristics: []string{"bright", "upbeat", "youthful"},
			Description:     "A light, airy voice with quick energy, suited to cheerful announcements and upbeat narration.",
		},
	},
	{
		Name:    "Puck",
		Tagline: "Playful trickster",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "mid",
			Characteristics: []string{"playful", "witty", "animated"},
			Description:     "A mischievous mid-range voice with theatrical flair, good for character work and comedy.",
		},
	},
	{
		Name:    "Charon",
		Tagline: "Deep and deliberate",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "low",
			Characteristics: []string{"deep", "authoritative", "measured"},
			Description:     "A gravelly bass voice that lands with weight, suited to trailers and documentary narration.",
		},
	},
	{
		Name:    "Kore",
		Tagline: "Warm and steady",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "mid",
			Characteristics: []string{"warm", "steady", "reassuring"},
			Description:     "A balanced, friendly voice that reads long passages without fatigue, good for audiobooks.",
		},
	},
	{
		Name:    "Fenrir",
		Tagline: "Raw power",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "low",
			Characteristics: []string{"intense", "gritty", "forceful"},
			Description:     "A growling low voice with urgency behind it, built for action sequences and dramatic reads.",
		},
	},
	{
		Name:    "Leda",
		Tagline: "Soft-spoken storyteller",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "high",
			Characteristics: []string{"gentle", "soothing", "intimate"},
			Description:     "A delicate voice with a close, confiding quality, suited to bedtime stories and meditation.",
		},
	},
	{
		Name:    "Orus",
		Tagline: "Corporate clarity",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "mid",
			Characteristics: []string{"crisp", "professional", "neutral"},
			Description:     "A clean, articulate voice with no regional color, suited to e-learning and product demos.",
		},
	},
	{
		Name:    "Aoede",
		Tagline: "Melodic and expressive",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "mid",
			Characteristics: []string{"musical", "expressive", "lively"},
			Description:     "A singsong voice with wide dynamic range, good for poetry and emotional narration.",
		},
	},
	{
		Name:    "Callirrhoe",
		Tagline: "Easygoing host",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "mid",
			Characteristics: []string{"relaxed", "conversational", "friendly"},
			Description:     "A casual, unhurried voice that sounds like a podcast host between friends.",
		},
	},
	{
		Name:    "Enceladus",
		Tagline: "Breathy gravitas",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "low",
			Characteristics: []string{"breathy", "thoughtful", "calm"},
			Description:     "A hushed low voice with space around every phrase, suited to reflective essays.",
		},
	},
	{
		Name:    "Iapetus",
		Tagline: "Plain and direct",
		Analysis: Analysis{
			Gender:          "male",
			Pitch:           "mid",
			Characteristics: []string{"clear", "direct", "unadorned"},
			Description:     "A no-frills voice that delivers information without performance, suited to news and alerts.",
		},
	},
	{
		Name:    "Autonoe",
		Tagline: "Bright professional",
		Analysis: Analysis{
			Gender:          "female",
			Pitch:           "high",
			Characteristics: []string{"bright", "polished", "confident"},
			Description:     "A polished voice with presenter energy, suited to product launches and explainers.",
		},
	},
}
