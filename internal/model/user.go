// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "website.app/v2/internal/model"

import "fmt"

// User represents the profile returned by the user data action.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (self *User) String() string {
	return fmt.Sprintf("ID=%q, Email=%q, Name=%q", self.ID, self.Email,
		self.Name)
}

// DisplayName returns the name if set, the email otherwise.
func (self *User) DisplayName() string {
	if self.Name != "" {
		return self.Name
	}
	return self.Email
}
