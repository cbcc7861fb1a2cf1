package domain

import "fmt"

// moodTemplates holds three summary sentences per mood. Arguments: %[1]s country name, %[2]s category label.
var moodTemplates = map[Mood][3]string{
	MoodJoy: {
		"%[1]s is in high spirits: %[2]s are dominated by upbeat, celebratory posts.",
		"Good vibes across %[1]s right now, with %[2]s leaning strongly positive.",
		"People in %[1]s are sharing wins and laughs in %[2]s today.",
	},
	MoodCuriosity: {
		"%[1]s is curious and watching closely as %[2]s unfold.",
		"Questions outnumber answers in %[1]s: %[2]s are drawing steady, open-ended interest.",
		"%[1]s is taking it all in, with %[2]s sparking discussion rather than strong reactions.",
	},
	MoodAnger: {
		"Frustration is running high in %[1]s around %[2]s.",
		"%[1]s is fired up: %[2]s are full of heated reactions.",
		"Tempers are short in %[1]s as %[2]s turn contentious.",
	},
	MoodConfusion: {
		"%[1]s seems unsure what to make of %[2]s right now.",
		"Mixed signals in %[1]s: %[2]s are leaving people puzzled.",
		"%[1]s is trying to make sense of a muddled picture in %[2]s.",
	},
	MoodSadness: {
		"A somber mood hangs over %[1]s as %[2]s weigh on people.",
		"%[1]s is feeling low, with %[2]s carrying heavy news.",
		"Spirits are down in %[1]s following recent %[2]s.",
	},
}

// MoodSummary picks one of the three templates of the dominant mood at random.
func MoodSummary(mood Mood, countryName string, category Category, rnd Randomizer) string {
	templates, ok := moodTemplates[mood]
	if !ok {
		templates = moodTemplates[MoodCuriosity]
	}
	return fmt.Sprintf(templates[rnd.IntN(len(templates))], countryName, category.Label())
}
