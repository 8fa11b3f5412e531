// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "website.app/v2/internal/model"

import (
	"fmt"
	"time"
)

// Session represents an app session of an authenticated visitor.
type Session struct {
	ID        string       `db:"id"`
	Data      *SessionData `db:"data"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

func (self *Session) String() string {
	return fmt.Sprintf(`ID=%q, Data={%v}`, self.ID, self.Data)
}

func (self *Session) Authentication() *Authentication {
	if self.Data == nil {
		return nil
	}
	return self.Data.Authentication
}

func (self *Session) User() *User {
	if self.Data == nil {
		return nil
	}
	return self.Data.User
}

func (self *Session) Language() string {
	if self.Data == nil {
		return ""
	}
	return self.Data.Language
}

// Expired reports whether the session is older than lifetime at now.
func (self *Session) Expired(lifetime time.Duration, now time.Time) bool {
	return !now.Before(self.CreatedAt.Add(lifetime))
}

// Authenticated reports whether both actions completed for this session.
func (self *Session) Authenticated() bool {
	return self != nil && self.Authentication().Valid() && self.User() != nil
}

// SessionData represents the data attached to the session.
type SessionData struct {
	Authentication *Authentication `json:"authentication,omitempty"`
	User           *User           `json:"user,omitempty"`
	Language       string          `json:"language,omitempty"`
	UserAgent      string          `json:"user_agent,omitempty"`
	IP             string          `json:"ip,omitempty"`
}

func (self *SessionData) String() string {
	return fmt.Sprintf(`Authentication={%v}, User={%v}, Lang=%q, IP=%q`,
		self.Authentication, self.User, self.Language, self.IP)
}
