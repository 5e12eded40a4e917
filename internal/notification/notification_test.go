package notification

import (
	"errors"
	"testing"
)

// mockNotification records calls to the notification function
type mockNotification struct {
	calls []struct {
		title   string
		message string
		icon    any
	}
	err error
}

func (m *mockNotification) notify(title, message string, icon any) error {
	m.calls = append(m.calls, struct {
		title   string
		message string
		icon    any
	}{title, message, icon})
	return m.err
}

func TestSend(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		message     string
		mockErr     error
		expectError bool
	}{
		{
			name:        "successful notification",
			title:       "Test Title",
			message:     "Test Message",
			mockErr:     nil,
			expectError: false,
		},
		{
			name:        "notification error",
			title:       "Test Title",
			message:     "Test Message",
			mockErr:     errors.New("notification failed"),
			expectError: true,
		},
		{
			name:        "empty title",
			title:       "",
			message:     "Message with empty title",
			mockErr:     nil,
			expectError: false,
		},
		{
			name:        "empty message",
			title:       "Title",
			message:     "",
			mockErr:     nil,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{err: tt.mockErr}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			err := Send(tt.title, tt.message)

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}

			call := mock.calls[0]
			if call.title != tt.title {
				t.Errorf("title = %q, want %q", call.title, tt.title)
			}
			if call.message != tt.message {
				t.Errorf("message = %q, want %q", call.message, tt.message)
			}
		})
	}
}

func TestSessionDisappeared(t *testing.T) {
	tests := []struct {
		name            string
		sessionTitle    string
		expectedTitle   string
		expectedMessage string
		mockErr         error
		expectError     bool
	}{
		{
			name:            "basic session",
			sessionTitle:    "build watcher",
			expectedTitle:   "Porthole",
			expectedMessage: "build watcher has ended",
			mockErr:         nil,
			expectError:     false,
		},
		{
			name:            "empty session title",
			sessionTitle:    "",
			expectedTitle:   "Porthole",
			expectedMessage: " has ended",
			mockErr:         nil,
			expectError:     false,
		},
		{
			name:            "notification failure",
			sessionTitle:    "test-session",
			expectedTitle:   "Porthole",
			expectedMessage: "test-session has ended",
			mockErr:         errors.New("notification system unavailable"),
			expectError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{err: tt.mockErr}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			err := SessionDisappeared(tt.sessionTitle)

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}

			call := mock.calls[0]
			if call.title != tt.expectedTitle {
				t.Errorf("title = %q, want %q", call.title, tt.expectedTitle)
			}
			if call.message != tt.expectedMessage {
				t.Errorf("message = %q, want %q", call.message, tt.expectedMessage)
			}
		})
	}
}
