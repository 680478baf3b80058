package source

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// suggestionThreshold is the minimum Jaro-Winkler similarity for a nearby
// identifier to be offered as a "did you mean" hint in a degraded status.
const suggestionThreshold = 0.82

// nearestIdentifier scans the cleaned text around the target line for the
// identifier most similar to the wanted name. It only ever feeds status
// messages; extraction decisions never depend on it.
func nearestIdentifier(v *FileView, name string, targetLine, radius int) (string, bool) {
	if name == "" {
		return "", false
	}
	from := targetLine - radius
	if from < 1 {
		from = 1
	}
	to := targetLine + radius
	if to > v.LineCount() {
		to = v.LineCount()
	}

	window := v.Clean[v.LineStart(from):v.LineEnd(to)]
	seen := make(map[string]bool)

	best := ""
	var bestScore float32
	for _, cand := range identRe.FindAllString(window, -1) {
		if cand == name || seen[cand] {
			continue
		}
		seen[cand] = true
		score, err := edlib.StringsSimilarity(name, cand, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = cand, score
		}
	}

	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}
