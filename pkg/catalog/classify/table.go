package classify

// DefaultFallback is the category assigned when no keyword matches.
const DefaultFallback = "general"

// SamplePages bounds how many page texts feed the classification
// sample.
const SamplePages = 5

// DefaultTable returns the standard category keyword table. Order
// matters: output tags follow this order, and snapshots depend on it.
func DefaultTable() []Category {
	return []Category{
		{Tag: "animals", Keywords: []string{
			"fish", "hippo", "monkey", "elephant", "lion", "bird", "cat", "dog", "rabbit", "bear",
			"penguin", "tortoise", "ant", "bee", "meerkat", "owl", "goat", "pig", "ladybird",
		}},
		{Tag: "bedtime", Keywords: []string{
			"dream", "sleep", "night", "moon", "star", "pillow", "lullaby", "tired", "sleepy",
		}},
		{Tag: "family", Keywords: []string{
			"mama", "papa", "tata", "grandpa", "grandma", "baby", "brother", "sister", "auntie",
			"mother", "father", "parent", "granny", "gogo", "ouma",
		}},
		{Tag: "adventure", Keywords: []string{
			"journey", "explore", "discover", "quest", "travel", "top", "climb", "mountain", "road",
		}},
		{Tag: "friendship", Keywords: []string{
			"friend", "together", "share", "help", "kind", "play",
		}},
		{Tag: "emotions", Keywords: []string{
			"happy", "sad", "angry", "grumpy", "love", "hug", "smile", "scared", "brave", "laugh",
		}},
		{Tag: "learning", Keywords: []string{
			"count", "color", "shape", "number", "letter", "learn", "teach", "school",
		}},
		{Tag: "fantasy", Keywords: []string{
			"magic", "wizard", "fairy", "dragon", "giant", "castle", "monster", "alien",
		}},
		{Tag: "food", Keywords: []string{
			"eat", "lunch", "breakfast", "dinner", "cook", "recipe", "cake", "egg", "pancake",
		}},
	}
}
