package homework

// Status is the review state reported by the upstream API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the fixed phrase for s.
func (s Status) Verdict() (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// StatusResponse is the body of GET homework_statuses.
//
// Homeworks is nil when the key is absent and non-nil (possibly empty) when
// present; encoding/json allocates an empty slice for "[]".
type StatusResponse struct {
	Homeworks   []Record `json:"homeworks"`
	CurrentDate int64    `json:"current_date"`
}

// Record is one homework entry. Only Name and Status drive behavior; the rest
// is informational and only logged.
type Record struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"homework_name"`
	Status          Status `json:"status"`
	LessonName      string `json:"lesson_name,omitempty"`
	ReviewerComment string `json:"reviewer_comment,omitempty"`
	DateUpdated     string `json:"date_updated,omitempty"`
}

// Key is the identity used to detect status changes.
type Key struct {
	Name   string
	Status Status
}

func (r Record) Key() Key { return Key{Name: r.Name, Status: r.Status} }
