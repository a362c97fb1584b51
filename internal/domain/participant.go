// Package domain contains entity without logic, just meta-data
package domain

// ParticipantID identifies a user of the calling application. It is
// stable across reconnects and owned by the application, never
// generated here.
type ParticipantID string

// ConnID identifies one live transport connection. Issued by the
// signaling adapter per connection; everything below the adapter
// treats it as an opaque foreign key.
type ConnID string
