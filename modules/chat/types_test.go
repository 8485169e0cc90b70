package chat

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{
			name:     "valid username",
			username: "alice",
			wantErr:  nil,
		},
		{
			name:     "valid unicode username",
			username: "aliçé",
			wantErr:  nil,
		},
		{
			name:     "empty username",
			username: "",
			wantErr:  ErrUsernameEmpty,
		},
		{
			name:     "too long",
			username: strings.Repeat("a", MaxUsernameLength+1),
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "invalid utf8",
			username: "ali\xffce",
			wantErr:  ErrUsernameInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateUsername(tt.username); err != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoomName(t *testing.T) {
	tests := []struct {
		name    string
		room    string
		wantErr error
	}{
		{
			name:    "valid room name",
			room:    "lobby",
			wantErr: nil,
		},
		{
			name:    "room name with spaces",
			room:    "general discussion",
			wantErr: nil,
		},
		{
			name:    "empty room name",
			room:    "",
			wantErr: ErrRoomNameEmpty,
		},
		{
			name:    "too long",
			room:    strings.Repeat("r", MaxRoomNameLength+1),
			wantErr: ErrRoomNameTooLong,
		},
		{
			name:    "invalid utf8",
			room:    "lob\xfeby",
			wantErr: ErrRoomNameInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRoomName(tt.room); err != tt.wantErr {
				t.Errorf("ValidateRoomName(%q) = %v, want %v", tt.room, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "valid message",
			content: "hello there",
			wantErr: nil,
		},
		{
			name:    "maximum length message",
			content: strings.Repeat("m", MaxMessageLength),
			wantErr: nil,
		},
		{
			name:    "empty message",
			content: "",
			wantErr: ErrMessageEmpty,
		},
		{
			name:    "too long",
			content: strings.Repeat("m", MaxMessageLength+1),
			wantErr: ErrMessageTooLong,
		},
		{
			name:    "invalid utf8",
			content: "hel\xc0lo",
			wantErr: ErrMessageInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMessage(tt.content); err != tt.wantErr {
				t.Errorf("ValidateMessage(...) = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
