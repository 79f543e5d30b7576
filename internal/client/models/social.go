package models

import "time"

type Comment struct {
	ID        int64     `json:"id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	Author    *Author   `json:"author,omitempty"`
}

// LikeState is returned by the like toggle and count endpoints; Liked is only
// meaningful for a toggle.
type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
