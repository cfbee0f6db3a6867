package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to TransactionStatus }{
		{TransactionStatusPending, TransactionStatusApproved},
		{TransactionStatusApproved, TransactionStatusPaid},
		{TransactionStatusPending, TransactionStatusCancelled},
		{TransactionStatusApproved, TransactionStatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to TransactionStatus }{
		{TransactionStatusPending, TransactionStatusPaid},
		{TransactionStatusPaid, TransactionStatusCancelled},
		{TransactionStatusPaid, TransactionStatusApproved},
		{TransactionStatusPaid, TransactionStatusPending},
		{TransactionStatusApproved, TransactionStatusPending},
		{TransactionStatusCancelled, TransactionStatusApproved},
		{TransactionStatusCancelled, TransactionStatusPaid},
		{TransactionStatusPending, TransactionStatusPending},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestValidateConversionInput(t *testing.T) {
	if err := ValidateConversionInput("ord-1", 19.99); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := ValidateConversionInput("", 19.99); err == nil {
		t.Fatal("empty order id accepted")
	}
	if err := ValidateConversionInput("   ", 19.99); err == nil {
		t.Fatal("blank order id accepted")
	}
	if err := ValidateConversionInput("ord-1", 0); err == nil {
		t.Fatal("zero amount accepted")
	}
	if err := ValidateConversionInput("ord-1", -5); err == nil {
		t.Fatal("negative amount accepted")
	}
}
