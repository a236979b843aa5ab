package models

// TeacherRating is one professor row from the ratings document.
type TeacherRating struct {
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	Department            string  `json:"department"`
	School                string  `json:"school"`
	AvgRating             float64 `json:"avgRating"`
	AvgDifficulty         float64 `json:"avgDifficulty"`
	NumRatings            int     `json:"numRatings"`
	WouldTakeAgainPercent float64 `json:"wouldTakeAgainPercent"`
}

// FullName returns "first last".
func (t TeacherRating) FullName() string {
	return t.FirstName + " " + t.LastName
}

// RatingTag is an aggregated tag with the number of students who applied it.
type RatingTag struct {
	TagName  string `json:"tagName"`
	TagCount int    `json:"tagCount"`
}

// Review is a single student review attached to an enriched rating.
type Review struct {
	Class               string   `json:"class"`
	Comment             string   `json:"comment"`
	Grade               string   `json:"grade"`
	Date                string   `json:"date"`
	ClarityRating       float64  `json:"clarityRating"`
	HelpfulRating       float64  `json:"helpfulRating"`
	DifficultyRating    float64  `json:"difficultyRating"`
	WouldTakeAgain      *int     `json:"wouldTakeAgain"`
	Tags                []string `json:"tags"`
	AttendanceMandatory string   `json:"attendanceMandatory"`
}

// EnrichedRating is a TeacherRating joined with its review document entry.
// It exists only for the duration of a query.
type EnrichedRating struct {
	TeacherRating
	AggregatedTags []RatingTag `json:"aggregatedTags"`
	Reviews        []Review    `json:"reviews"`
}

// ProfessorReviews is one entry of the review document, kept in the nested
// shape the scraper wrote it in.
type ProfessorReviews struct {
	Data struct {
		Node ProfessorNode `json:"node"`
	} `json:"data"`
}

// ProfessorNode holds the review payload for one professor.
type ProfessorNode struct {
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	TeacherRatingTags []RatingTag `json:"teacherRatingTags"`
	Ratings           struct {
		Edges []struct {
			Node RawReview `json:"node"`
		} `json:"edges"`
	} `json:"ratings"`
}

// RawReview is a review as stored; RatingTags is a "--" separated list.
type RawReview struct {
	Class               string  `json:"class"`
	Comment             string  `json:"comment"`
	Grade               string  `json:"grade"`
	Date                string  `json:"date"`
	ClarityRating       float64 `json:"clarityRating"`
	HelpfulRating       float64 `json:"helpfulRating"`
	DifficultyRating    float64 `json:"difficultyRating"`
	WouldTakeAgain      *int    `json:"wouldTakeAgain"`
	RatingTags          string  `json:"ratingTags"`
	AttendanceMandatory string  `json:"attendanceMandatory"`
}
