package http

import "testing"

func TestValidBotToken(t *testing.T) {
	valid := []string{"123456:ABC-def_ghi", "1:a"}
	invalid := []string{"", "abc:def", "123456", "123456:", "123 456:abc", "123456:abc def"}
	for _, s := range valid {
		if !ValidBotToken(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidBotToken(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidBotName(t *testing.T) {
	if !ValidBotName("") || !ValidBotName("Ops Bot v2.1") {
		t.Error("expected plain names to be valid")
	}
	if ValidBotName("<b>bot</b>") {
		t.Error("expected markup to be rejected")
	}
}

func TestSanitizeAndTruncate(t *testing.T) {
	if got := SanitizeString("  ops\x00 \xff"); got != "ops" {
		t.Errorf("SanitizeString = %q", got)
	}
	if got := TruncateString("héllo", 2); got != "hé" {
		t.Errorf("TruncateString = %q", got)
	}
}
