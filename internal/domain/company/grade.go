package company

// gradeTable maps score floors to letter grades, highest first. Comparison is
// inclusive ("score >= threshold"), first match wins.
var gradeTable = []struct {
	threshold int
	grade     string
}{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
	{55, "C"},
	{50, "C-"},
}

// GradeForScore converts a 0-100 score to a letter grade. Out-of-range input
// resolves through the same table on purpose: negatives fall through to D,
// anything above 100 lands on A+.
func GradeForScore(score int) string {
	for _, row := range gradeTable {
		if score >= row.threshold {
			return row.grade
		}
	}
	return "D"
}
