// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	NotificationParticipantApproved = "PARTICIPANT_APPROVED"
	NotificationParticipantRejected = "PARTICIPANT_REJECTED"
)

// Notification is an append-only feed row read via a composite
// (createdAt, id) descending cursor.
type Notification struct {
	BaseModel
	UserID      int64      `gorm:"column:user_id;not null;index:idx_user_created,priority:1" json:"-"`
	Type        string     `gorm:"column:type;type:varchar(50);not null" json:"type"`
	Message     string     `gorm:"column:message;type:text;not null" json:"message"`
	ChallengeID *int64     `gorm:"column:challenge_id" json:"challengeId"`
	WorkID      *int64     `gorm:"column:work_id" json:"workId"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"readAt"`
}

func (Notification) TableName() string {
	return "t_notification"
}

// Cursor is the (createdAt, id) watermark guaranteeing a strict total
// order even when rows share a timestamp.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

func (c Cursor) String() string {
	return fmt.Sprintf("%s|%d", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
}

// ParseCursor decodes a "<timestamp>|<id>" watermark.
func ParseCursor(s string) (Cursor, error) {
	raw, idRaw, ok := strings.Cut(s, "|")
	if !ok {
		return Cursor{}, fmt.Errorf("cursor must be \"<timestamp>|<id>\"")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor id: %w", err)
	}
	return Cursor{CreatedAt: createdAt, ID: id}, nil
}

type ListNotificationsQuery struct {
	UserID      int64
	Cursor      *Cursor
	Limit       int
	IncludeRead bool
}

type NotificationPage struct {
	Items      []Notification
	NextCursor *string
	HasNext    bool
}
