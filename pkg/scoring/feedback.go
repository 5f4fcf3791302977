package scoring

import "fmt"

// Feedback renders the fixed one-line assessment for a final score and
// occasion. Bands are >=8, >=6, >=4 and below.
func Feedback(finalScore float64, occasion string) string {
	desc := Description(occasion)
	switch {
	case finalScore >= 8:
		return fmt.Sprintf("Excellent choice for %s! Very well put together.", desc)
	case finalScore >= 6:
		return fmt.Sprintf("Good outfit for %s. Well coordinated overall.", desc)
	case finalScore >= 4:
		return fmt.Sprintf("Decent look for %s, but could use some improvements.", desc)
	}
	return fmt.Sprintf("This outfit may not be the best choice for %s.", desc)
}
