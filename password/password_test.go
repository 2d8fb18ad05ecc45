package password

import (
	"errors"
	"testing"
)

func TestVerify_DispatchesOnHashFormat(t *testing.T) {
	bc, err := HashBcrypt("hunter22")
	if err != nil {
		t.Fatalf("HashBcrypt: %v", err)
	}
	ar, err := HashArgon2id("hunter22")
	if err != nil {
		t.Fatalf("HashArgon2id: %v", err)
	}
	for name, stored := range map[string]string{"bcrypt": bc, "argon2id": ar} {
		ok, err := Verify(stored, "hunter22")
		if err != nil || !ok {
			t.Fatalf("%s: expected match, ok=%v err=%v", name, ok, err)
		}
		ok, err = Verify(stored, "wrong")
		if err != nil || ok {
			t.Fatalf("%s: expected mismatch, ok=%v err=%v", name, ok, err)
		}
	}
}

func TestVerify_GoogleMarkerIsNotAHash(t *testing.T) {
	_, err := Verify("https://lh3.googleusercontent.com/a/photo", "anything")
	if !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
}

func TestVerifyArgon2id_Malformed(t *testing.T) {
	for _, s := range []string{
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=1,p=1$c2FsdA",
		"$argon2id$v=18$m=65536,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=1$!!$a2V5",
	} {
		if _, err := VerifyArgon2id(s, "pw"); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
