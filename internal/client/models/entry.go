package models

import (
	"strings"
	"time"
)

const (
	DefaultEntryTitle = "Untitled"
	maxHashtagLength  = 15
)

// Author is the public identity attached to shared entries and comments.
type Author struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

// DisplayName prefers Username and falls back to Name.
func (a Author) DisplayName() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Name
}

// Entry is a diary entry. Presentation attributes (colors, fonts, cover,
// location) are kept so they survive a round trip but are never interpreted.
type Entry struct {
	ID            int64          `json:"id,omitempty"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Date          string         `json:"date,omitempty"`
	Hashtags      string         `json:"hashtags,omitempty"`
	IsPublic      bool           `json:"is_public"`
	Emotion       string         `json:"emotion,omitempty"`
	TextColor     string         `json:"text_color,omitempty"`
	FontSize      string         `json:"font_size,omitempty"`
	TextAlign     string         `json:"text_align,omitempty"`
	Location      map[string]any `json:"location,omitempty"`
	CoverImage    string         `json:"cover_image,omitempty"`
	Author        *Author        `json:"author,omitempty"`
	CommentsCount int            `json:"comments_count,omitempty"`
	CreatedAt     time.Time      `json:"created_at,omitzero"`
	UpdatedAt     time.Time      `json:"updated_at,omitzero"`
}

// NewEntry builds an entry ready to be posted. An empty title becomes
// DefaultEntryTitle and the date defaults to the day of now. Hashtags are
// stored as typed; ParseHashtags is for display only.
func NewEntry(title, content, hashtags string, public bool, now time.Time) Entry {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultEntryTitle
	}
	return Entry{
		Title:    title,
		Content:  content,
		Hashtags: strings.TrimSpace(hashtags),
		IsPublic: public,
		Date:     now.Format(time.DateOnly),
	}
}

// EntryUpdate lists the fields an edit changes; nil fields keep their value.
type EntryUpdate struct {
	Title    *string
	Content  *string
	Hashtags *string
	IsPublic *bool
}

// Empty reports whether u changes nothing.
func (u EntryUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Hashtags == nil && u.IsPublic == nil
}

// Apply returns e with the changes of u. A title cleared to blank becomes
// DefaultEntryTitle, same as on creation.
func (u EntryUpdate) Apply(e Entry) Entry {
	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
		if e.Title == "" {
			e.Title = DefaultEntryTitle
		}
	}
	if u.Content != nil {
		e.Content = *u.Content
	}
	if u.Hashtags != nil {
		e.Hashtags = strings.TrimSpace(*u.Hashtags)
	}
	if u.IsPublic != nil {
		e.IsPublic = *u.IsPublic
	}
	return e
}

// Tags returns the entry hashtags in display form.
func (e Entry) Tags() []string {
	return ParseHashtags(e.Hashtags)
}

// ParseHashtags splits a free-form hashtag string on whitespace and commas.
// Every tag gets exactly one leading '#'; tags longer than fifteen characters
// are truncated and suffixed with "...".
func ParseHashtags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimLeft(f, "#")
		if f == "" {
			continue
		}
		tag := []rune("#" + f)
		if len(tag) > maxHashtagLength {
			tags = append(tags, string(tag[:maxHashtagLength])+"...")
			continue
		}
		tags = append(tags, string(tag))
	}
	return tags
}
