package currency

import "testing"

func TestMemoryLedger_TransferFrom(t *testing.T) {
	t.Run("moves funds between accounts", func(t *testing.T) {
		l := NewMemoryLedger("escrow")
		if err := l.Credit("alice", 100); err != nil {
			t.Fatalf("Credit() error = %v", err)
		}

		if err := l.TransferFrom("alice", "bob", 60); err != nil {
			t.Fatalf("TransferFrom() error = %v", err)
		}

		alice, _ := l.BalanceOf("alice")
		bob, _ := l.BalanceOf("bob")
		if alice != 40 || bob != 60 {
			t.Errorf("balances = alice %d, bob %d, want 40, 60", alice, bob)
		}
	})

	t.Run("rejects insufficient balance", func(t *testing.T) {
		l := NewMemoryLedger("escrow")
		if err := l.Credit("alice", 10); err != nil {
			t.Fatalf("Credit() error = %v", err)
		}

		if err := l.TransferFrom("alice", "bob", 20); err == nil {
			t.Error("TransferFrom() beyond balance succeeded, want error")
		}

		// Nothing moved.
		alice, _ := l.BalanceOf("alice")
		bob, _ := l.BalanceOf("bob")
		if alice != 10 || bob != 0 {
			t.Errorf("balances = alice %d, bob %d, want 10, 0", alice, bob)
		}
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		l := NewMemoryLedger("escrow")
		if err := l.TransferFrom("alice", "bob", -5); err == nil {
			t.Error("TransferFrom() with negative amount succeeded, want error")
		}
	})
}

func TestMemoryLedger_Transfer(t *testing.T) {
	l := NewMemoryLedger("escrow")
	if err := l.Credit("escrow", 100); err != nil {
		t.Fatalf("Credit() error = %v", err)
	}

	if err := l.Transfer("creator", 75); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	escrow, _ := l.BalanceOf("escrow")
	creator, _ := l.BalanceOf("creator")
	if escrow != 25 || creator != 75 {
		t.Errorf("balances = escrow %d, creator %d, want 25, 75", escrow, creator)
	}
}

func TestMemoryLedger_Credit(t *testing.T) {
	l := NewMemoryLedger("")

	if l.EscrowAccount() != "escrow" {
		t.Errorf("EscrowAccount() = %q, want escrow", l.EscrowAccount())
	}

	if err := l.Credit("alice", -1); err == nil {
		t.Error("Credit() with negative amount succeeded, want error")
	}

	balance, err := l.BalanceOf("unknown")
	if err != nil {
		t.Fatalf("BalanceOf() error = %v", err)
	}
	if balance != 0 {
		t.Errorf("BalanceOf(unknown) = %d, want 0", balance)
	}
}
