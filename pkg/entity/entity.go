package entity

import "time"

// Mood labels the journal UI can assign to an entry.
const (
	MoodAmazing  = "Amazing"
	MoodGood     = "Good"
	MoodOkay     = "Okay"
	MoodDown     = "Down"
	MoodStressed = "Stressed"
)

// MoodEntry is one journaling record. Entries are immutable once created:
// the store only appends and bulk-replaces, there is no update or delete.
type MoodEntry struct {
	ID          string    `json:"id"`
	Mood        string    `json:"mood"`
	MoodValue   int       `json:"moodValue"`
	StressLevel int       `json:"stressLevel"`
	Note        string    `json:"note"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags"`
}

// UserData is the owned entry collection for one user, newest-first by
// construction (new entries are prepended).
type UserData struct {
	Entries []MoodEntry `json:"entries"`
}

type UserStats struct {
	Streak  int `json:"streak"`
	Entries int `json:"entries"`
	Level   int `json:"level"`
}

// User is the single live profile record. Created at sign-in/sign-up,
// mutated in place on avatar change, cleared at sign-out.
type User struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Avatar   string     `json:"avatar,omitempty"`
	JoinDate string     `json:"joinDate,omitempty"`
	Stats    *UserStats `json:"stats,omitempty"`
	Badges   []string   `json:"badges"`
}

// Highlight describes the happiest day found in the collection.
type Highlight struct {
	Day  string `json:"day"`
	Note string `json:"note"`
}

type EmotionShare struct {
	Label      string `json:"label"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

type ChartPoint struct {
	Day    string `json:"day"`
	Mood   int    `json:"mood"`
	Stress int    `json:"stress"`
}

// DashboardStats is the aggregator output rendered by the dashboard.
type DashboardStats struct {
	Streak       int            `json:"streak"`
	TotalEntries int            `json:"totalEntries"`
	Highlight    Highlight      `json:"highlight"`
	TopEmotions  []EmotionShare `json:"topEmotions"`
	ChartSeries  []ChartPoint   `json:"chartSeries"`
}

// ChatTurn is one prior turn of the companion conversation.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
