package utils

import "testing"

func TestHashAndVerifyPIN(t *testing.T) {
	hash, err := HashPIN("4821", 4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPIN() error = %v", err)
	}
	if hash == "4821" {
		t.Fatal("HashPIN() returned the plain PIN")
	}

	if !VerifyPIN(hash, "4821") {
		t.Error("VerifyPIN() = false for correct PIN")
	}
	if VerifyPIN(hash, "4822") {
		t.Error("VerifyPIN() = true for wrong PIN")
	}
	if VerifyPIN("not-a-hash", "4821") {
		t.Error("VerifyPIN() = true for malformed hash")
	}
}
