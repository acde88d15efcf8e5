package dto

type ReminderFailure struct {
	PageID string `json:"page_id"`
	Slug   string `json:"slug"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

type ReminderSweepResponse struct {
	Day           string            `json:"day"`
	Scanned       int               `json:"scanned"`
	UserReminders int               `json:"user_reminders"`
	AdminNotices  int               `json:"admin_notices"`
	Duplicates    int               `json:"duplicates"`
	Failures      []ReminderFailure `json:"failures"`
}
