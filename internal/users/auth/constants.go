// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// MinPasswordLength is the minimum accepted password length. Registration
	// rejects anything shorter with a WEAK_PASSWORD failure.
	MinPasswordLength = 4

	// MaxDisplayNameLength caps the account display name.
	MaxDisplayNameLength = 20

	// LoginFailureLimit is the number of failed login attempts tolerated per
	// client key before further attempts are throttled.
	LoginFailureLimit = 5

	// LoginFailureWindow is the expiry applied to the failure counter.
	// The counter resets on a successful login.
	LoginFailureWindow = 15 * time.Minute

	// WelcomeMailTimeout bounds the fire-and-forget registration email send.
	// The goroutine is abandoned past this deadline; registration never waits.
	WelcomeMailTimeout = 10 * time.Second
)

// # Registration Mail

const (
	WelcomeMailSubject = "Registration successful - Pet Clinic"

	WelcomeMailBody = "Dear %s,\n\n" +
		"Thank you for registering to our Pet Clinic application!\n\n" +
		"Best regards,\n" +
		"Pet Clinic Team"
)
