package models

import (
	"fmt"
	"time"
)

// EmotionType is a daily mood mark.
type EmotionType string

const (
	EmotionJoy     EmotionType = "joy"
	EmotionSadness EmotionType = "sadness"
	EmotionNeutral EmotionType = "neutral"
)

var ErrUnknownEmotion = fmt.Errorf("emotion must be one of %s, %s, %s", EmotionJoy, EmotionSadness, EmotionNeutral)

// ParseEmotionType validates s against the known emotion types.
func ParseEmotionType(s string) (EmotionType, error) {
	switch t := EmotionType(s); t {
	case EmotionJoy, EmotionSadness, EmotionNeutral:
		return t, nil
	}
	return "", ErrUnknownEmotion
}

type Emotion struct {
	ID          int64       `json:"id,omitempty"`
	EmotionType EmotionType `json:"emotion_type"`
	Timestamp   time.Time   `json:"timestamp,omitzero"`
}

// EmotionStats counts marks per emotion over a period.
type EmotionStats struct {
	Joy     int     `json:"joy"`
	Sadness int     `json:"sadness"`
	Neutral int     `json:"neutral"`
	Month   *string `json:"month,omitempty"`
}

func (s EmotionStats) Total() int { return s.Joy + s.Sadness + s.Neutral }

// StatsPeriod selects the window of /api/emotions/stats/{period}/.
type StatsPeriod string

const (
	PeriodDay          StatsPeriod = "day"
	PeriodWeek         StatsPeriod = "week"
	PeriodMonth        StatsPeriod = "month"
	PeriodCurrentMonth StatsPeriod = "current_month"
	PeriodLastMonth    StatsPeriod = "last_month"
	PeriodAllTime      StatsPeriod = "all_time"
)

// ParseStatsPeriod validates s; an empty string selects PeriodWeek.
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch p := StatsPeriod(s); p {
	case "":
		return PeriodWeek, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodCurrentMonth, PeriodLastMonth, PeriodAllTime:
		return p, nil
	}
	return "", fmt.Errorf("unknown stats period %q", s)
}
