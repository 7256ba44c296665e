package models

// StatsTotals holds whole-collection counts for the dashboard overview.
type StatsTotals struct {
	Users         int64 `json:"users"`
	Conversations int64 `json:"conversations"`
	Messages      int64 `json:"messages"`
	ThumbsUp      int64 `json:"thumbsUp"`
	ThumbsDown    int64 `json:"thumbsDown"`
}

// TimelineBucket is one day of the question-volume histogram. The bucket key
// is the %Y-%m-%d day string produced by $dateToString.
type TimelineBucket struct {
	Date  string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// Stats is the /admin/stats response body.
type Stats struct {
	Totals            StatsTotals      `json:"totals"`
	QuestionsTimeline []TimelineBucket `json:"questionsTimeline"`
}
