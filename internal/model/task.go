package model

import "time"

type TaskID string

type ProfileID string

// Task is a single to-do item pinned to a profile and a calendar day.
// Profiles do not own tasks; ProfileID is a reference by value.
type Task struct {
	ID        TaskID    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	ProfileID ProfileID `json:"profileId"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is a named bucket partitioning tasks ("Personal", "Work").
type Profile struct {
	ID        ProfileID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
