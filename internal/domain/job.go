package domain

// JobPosting is one listing collected from the guest search pages. ID is the
// site-assigned job id taken from the card's entity URN (or the posting URL
// when the URN is missing). Description and Date stay empty unless the
// detail stage fills them in; Date keeps the raw datetime attribute string.
type JobPosting struct {
	ID          string `json:"identifier"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}
