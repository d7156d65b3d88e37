package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedFrame   = errors.New("protocol: malformed frame")
	ErrUnexpectedRoster = errors.New("protocol: unexpected roster payload")
)

// Inbound is a frame received by a client: either a UserList or a ChatMessage.
type Inbound interface {
	inbound()
}

func (UserList) inbound() {}
func (ChatMessage) inbound() {}

// DecodeInbound decodes a relay frame. Keys match exactly. Frames whose
// type is the string user_list become a UserList; every other JSON object
// is a ChatMessage, with missing fields left empty and non-string fields
// rendered as their JSON text.
func DecodeInbound(data []byte) (Inbound, error) {
	var fields map[string]json.RawMessage
	if err := decodeObject(data, &fields); err != nil {
		return nil, err
	}

	if kind, ok := rawString(fields["type"]); ok && kind == TypeUserList {
		var users []RosterEntry
		if raw, ok := fields["users"]; ok {
			if err := json.Unmarshal(raw, &users); err != nil {
				return nil, fmt.Errorf("%w: users: %v", ErrMalformedFrame, err)
			}
		}
		if users == nil {
			users = []RosterEntry{}
		}
		return UserList{Type: TypeUserList, Users: users}, nil
	}
	return ChatMessage{
		Username: coerceText(fields["username"]),
		Text:     coerceText(fields["text"]),
	}, nil
}

func rawString(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// coerceText turns an absent or null field into "" and any other non-string
// value into its compact JSON text.
func coerceText(raw json.RawMessage) string {
	if s, ok := rawString(raw); ok {
		return s
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ClientFrame is a frame received by the relay from a client.
type ClientFrame struct {
	Type        string `json:"type,omitempty"`
	Username    string `json:"username"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}

func (f ClientFrame) IsIdentity() bool {
	return f.Type == TypeUserInfo || f.Type == TypeUpdateInfo
}

func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := decodeObject(data, &f); err != nil {
		return ClientFrame{}, err
	}
	return f, nil
}

func EncodeChat(msg ChatMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode chat message: %w", err)
	}
	return data, nil
}

func EncodeUserInfo(username, description string) ([]byte, error) {
	data, err := json.Marshal(UserInfo{
		Type:        TypeUserInfo,
		Username:    username,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("encode user info: %w", err)
	}
	return data, nil
}

func EncodeUserList(users []RosterEntry) ([]byte, error) {
	if users == nil {
		users = []RosterEntry{}
	}
	data, err := json.Marshal(UserList{Type: TypeUserList, Users: users})
	if err != nil {
		return nil, fmt.Errorf("encode user list: %w", err)
	}
	return data, nil
}

// DecodeRoster interprets the roster HTTP resource by its shape: an array
// of entries, a bare integer count, or null for nobody.
func DecodeRoster(body []byte) (Roster, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Roster{}, fmt.Errorf("%w: empty body", ErrUnexpectedRoster)
	}

	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return Roster{Entries: []RosterEntry{}, HasUsers: true}, nil
	case trimmed[0] == '[':
		var entries []RosterEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Roster{}, fmt.Errorf("%w: %v", ErrUnexpectedRoster, err)
		}
		if entries == nil {
			entries = []RosterEntry{}
		}
		return Roster{Count: len(entries), Entries: entries, HasUsers: true}, nil
	default:
		var count int
		if err := json.Unmarshal(trimmed, &count); err != nil {
			return Roster{}, fmt.Errorf("%w: %v", ErrUnexpectedRoster, err)
		}
		if count < 0 {
			return Roster{}, fmt.Errorf("%w: negative count %d", ErrUnexpectedRoster, count)
		}
		return Roster{Count: count}, nil
	}
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: not a JSON object", ErrMalformedFrame)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}
