// Package repositories maps domain entities onto document-store records.
// Field names in this file are the wire contract; changing them breaks
// compatibility with an existing store.
package repositories

import (
	"time"

	"chatkit/contract"

	"github.com/samber/lo"
)

const (
	ChannelCollection = "Channels"
	MessageCollection = "Messages"
	UserCollection    = "Users"
)

// Channel record fields.
const (
	fieldID            = "id"
	fieldAuthor        = "author"
	fieldAdmin         = "admin"
	fieldUsers         = "users"
	fieldUsersKey      = "usersKey"
	fieldCreated       = "created"
	fieldLastMedia     = "lastMedia"
	fieldLastSender    = "lastSender"
	fieldLastText      = "lastText"
	fieldLastTimestamp = "lastTimestamp"
	fieldLastReplyTo   = "lastReplyTo"
)

// Message record fields.
const (
	fieldMessageID = "messageID"
	fieldChannelID = "channelID"
	fieldText      = "text"
	fieldMediaIDs  = "mediaIDs"
	fieldSender    = "senderUID"
	fieldReplyTo   = "replyToUID"
	fieldTimestamp = "timestamp"
)

// User record fields.
const (
	fieldEmail        = "email"
	fieldPasswordHash = "passwordHash"
	fieldRoles        = "roles"
)

// The helpers below coerce values coming back from a JSON-decoding store,
// where numbers are float64 and arrays are []any.

func docString(doc contract.Document, field string) string {
	s, _ := doc[field].(string)
	return s
}

func docOptString(doc contract.Document, field string) *string {
	if s, ok := doc[field].(string); ok {
		return &s
	}
	return nil
}

func docStrings(doc contract.Document, field string) []string {
	switch v := doc[field].(type) {
	case []string:
		return v
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	default:
		return nil
	}
}

func docTime(doc contract.Document, field string) time.Time {
	if f, ok := asSeconds(doc[field]); ok {
		return time.Unix(f, 0).UTC()
	}
	return time.Time{}
}

func docOptTime(doc contract.Document, field string) *time.Time {
	if f, ok := asSeconds(doc[field]); ok {
		t := time.Unix(f, 0).UTC()
		return &t
	}
	return nil
}

func asSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// epochOrNil stores timestamps as epoch seconds, the store's number
// representation for instants.
func epochOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// strOrNil keeps the explicit-null convention: an unset optional string
// is written as null, never omitted.
func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// sliceOrNil writes an empty identifier list as null rather than [].
func sliceOrNil(items []string) any {
	if len(items) == 0 {
		return nil
	}
	return items
}
