package strategy

// Levenshtein returns the edit distance between a and b, counting runes.
// It fills the full (len(a)+1) x (len(b)+1) matrix.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	dp := make([][]int, len(ra)+1)
	for i := range dp {
		dp[i] = make([]int, len(rb)+1)
		dp[i][0] = i
	}
	for j := range dp[0] {
		dp[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}
	return dp[len(ra)][len(rb)]
}

// closeSpelling reports whether two tokens are within the fuzzy edit
// threshold. Short tokens need proportionally closer spellings.
func closeSpelling(a, b string) bool {
	la, lb := runeLen(a), runeLen(b)
	if la-lb > maxEditDistance || lb-la > maxEditDistance {
		return false
	}
	d := Levenshtein(a, b)
	return d <= maxEditDistance && d < min(la, lb)/2+1
}

const maxEditDistance = 2
