package entity

import (
	"fmt"
	"time"
)

// 캘린더 항목 유형
const (
	CalendarItemImage = "image"
	CalendarItemText  = "text"
)

// DateLayout은 scheduledDate 형식(YYYY-MM-DD)입니다.
const DateLayout = "2006-01-02"

// CalendarItem은 저장된 콘텐츠 하나입니다. ScheduledDate가 비어 있으면 staged 상태입니다.
type CalendarItem struct {
	ID            string `json:"id"`
	Type          string `json:"type" validate:"required,oneof=image text"`
	Content       string `json:"content" validate:"required"`
	Title         string `json:"title"`
	Platform      string `json:"platform,omitempty"`
	ScheduledDate string `json:"scheduledDate,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

// CalendarDraft는 ID와 생성 시각이 부여되기 전의 캘린더 항목입니다.
type CalendarDraft struct {
	Type          string `json:"type" validate:"required,oneof=image text"`
	Content       string `json:"content" validate:"required"`
	Title         string `json:"title"`
	Platform      string `json:"platform,omitempty"`
	ScheduledDate string `json:"scheduledDate,omitempty"`
}

// Staged는 아직 날짜가 지정되지 않은 항목인지 확인합니다.
func (i CalendarItem) Staged() bool {
	return i.ScheduledDate == ""
}

// ValidateDate는 scheduledDate 문자열을 검증합니다.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid scheduled date %q: expected YYYY-MM-DD", date)
	}
	return nil
}
