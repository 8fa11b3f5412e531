// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "website.app/v2/internal/model"

// Authentication is the result of the set auth token action. It is passed
// as is to the user data action.
type Authentication struct {
	Token string `json:"token"`
}

func (self *Authentication) Valid() bool { return self != nil && self.Token != "" }

// String never exposes the token itself.
func (self *Authentication) String() string {
	if !self.Valid() {
		return "Token=<empty>"
	}
	return "Token=<secret>"
}
