package core

import "testing"

func TestMemberValidate(t *testing.T) {
	good := Member{
		Name:      "Ana Souza",
		BirthDate: date(2012, 3, 9),
		Unit:      "Amigo",
		Class:     "Companheiro",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		m    Member
		want error
	}{
		{Member{BirthDate: date(2012, 3, 9), Unit: "u", Class: "c"}, ErrEmptyName},
		{Member{Name: "a", Unit: "u", Class: "c"}, ErrInvalidBirthDate},
		{Member{Name: "a", BirthDate: date(2012, 3, 9), Class: "c"}, ErrEmptyUnit},
		{Member{Name: "a", BirthDate: date(2012, 3, 9), Unit: "u"}, ErrEmptyClass},
	}
	for i, tc := range bads {
		if err := tc.m.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Kind: Income, Category: "dues", Description: "x", Amount: Money{Cents: 100}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero and negative amounts stay valid.
	permissive := Transaction{Kind: Expense, Category: "other", Description: "correction", Amount: Money{Cents: -500}}
	if err := permissive.Validate(); err != nil {
		t.Fatalf("expected permissive amount to pass, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Kind: "transfer", Category: "c", Description: "d"}, ErrInvalidKind},
		{Transaction{Kind: Income, Description: "d"}, ErrEmptyCategory},
		{Transaction{Kind: Income, Category: "c"}, ErrEmptyDescription},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestValidatePeriod(t *testing.T) {
	if err := ValidatePeriod(1, 2025); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidatePeriod(0, 2025); err != ErrInvalidMonth {
		t.Fatalf("got %v, want ErrInvalidMonth", err)
	}
	if err := ValidatePeriod(13, 2025); err != ErrInvalidMonth {
		t.Fatalf("got %v, want ErrInvalidMonth", err)
	}
	if err := ValidatePeriod(6, 0); err != ErrInvalidYear {
		t.Fatalf("got %v, want ErrInvalidYear", err)
	}
}

func TestPeriodRange(t *testing.T) {
	start, end := PeriodRange(12, 2024)
	if !start.Equal(date(2024, 12, 1)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(date(2025, 1, 1)) {
		t.Fatalf("December must roll over to January: end = %v", end)
	}

	start, end = PeriodRange(2, 2024)
	if !start.Equal(date(2024, 2, 1)) || !end.Equal(date(2024, 3, 1)) {
		t.Fatalf("range = [%v, %v)", start, end)
	}
}

func TestSummarizeDues(t *testing.T) {
	dues := []DueRecord{
		{Status: DuePaid, Amount: Money{Cents: 5000}},
		{Status: DuePaid, Amount: Money{Cents: 5000}},
		{Status: DuePending, Amount: Money{Cents: 5000}},
	}
	s := SummarizeDues(5, 2024, dues)
	if s.PaidCount != 2 || s.PendingCount != 1 || s.TotalCount != 3 {
		t.Fatalf("counts = %d/%d/%d", s.PaidCount, s.PendingCount, s.TotalCount)
	}
	if s.AmountPaid.Cents != 10000 || s.AmountPending.Cents != 5000 || s.AmountTotal.Cents != 15000 {
		t.Fatalf("amounts = %d/%d/%d", s.AmountPaid.Cents, s.AmountPending.Cents, s.AmountTotal.Cents)
	}
	if s.PercentPaid != 66.67 {
		t.Fatalf("PercentPaid = %v, want 66.67", s.PercentPaid)
	}

	empty := SummarizeDues(5, 2024, nil)
	if empty.PercentPaid != 0 {
		t.Fatalf("empty period PercentPaid = %v, want 0", empty.PercentPaid)
	}
}

func TestRunningBalance(t *testing.T) {
	txs := []Transaction{
		{Kind: Income, Amount: Money{Cents: 5000}},
		{Kind: Income, Amount: Money{Cents: 20000}},
		{Kind: Expense, Amount: Money{Cents: 2500}},
	}
	if got := RunningBalance(txs, Money{}); got.Cents != 22500 {
		t.Fatalf("balance = %d, want 22500", got.Cents)
	}
	if got := RunningBalance(txs, Money{Cents: 1000}); got.Cents != 23500 {
		t.Fatalf("balance with opening = %d, want 23500", got.Cents)
	}
	if got := RunningBalance(nil, Money{Cents: 777}); got.Cents != 777 {
		t.Fatalf("empty fold = %d, want opening 777", got.Cents)
	}
}

func TestSettlementDescription(t *testing.T) {
	got := SettlementDescription("Ana Souza", 5, 2024)
	want := "Monthly due - Ana Souza - 5/2024"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTransactionSigned(t *testing.T) {
	in := Transaction{Kind: Income, Amount: Money{Cents: 300}}
	out := Transaction{Kind: Expense, Amount: Money{Cents: 300}}
	if in.Signed() != 300 || out.Signed() != -300 {
		t.Fatalf("signed = %d, %d", in.Signed(), out.Signed())
	}
}
