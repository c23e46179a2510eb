package models

import "testing"

func TestConversationKeyCanonical(t *testing.T) {
	if got := ConversationKey(7, 3); got != "3:7" {
		t.Errorf("ConversationKey(7, 3) = %q, want %q", got, "3:7")
	}
	if ConversationKey(3, 7) != ConversationKey(7, 3) {
		t.Error("conversation key must not depend on sender direction")
	}
	if got := ConversationKey(5, 5); got != "5:5" {
		t.Errorf("ConversationKey(5, 5) = %q, want %q", got, "5:5")
	}
}
