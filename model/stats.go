package model

type Stats struct {
	NotesStats struct {
		Total    int `json:"total"`
		Work     int `json:"work"`
		Personal int `json:"personal"`
	} `json:"notesStats"`
	TaskStats struct {
		Total      int `json:"total"`
		Pending    int `json:"pending"`
		InProgress int `json:"inProgress"`
		Completed  int `json:"completed"`
	} `json:"taskStats"`
}
