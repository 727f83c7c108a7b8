package models

import "time"

type Phrase struct {
	ID         int64     `json:"id"`
	Prompt     string    `json:"prompt"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}
