package world

import "testing"

func TestAddCurrency(t *testing.T) {
	balances := map[CurrencyType]int64{CurrencyGold: 100}

	out := AddCurrency(balances, CurrencyGold, 50)
	if out == nil || out[CurrencyGold] != 150 {
		t.Errorf("add: got %v", out)
	}
	if balances[CurrencyGold] != 100 {
		t.Error("input map mutated")
	}
	if AddCurrency(balances, CurrencyGold, 0) != nil {
		t.Error("zero amount should be rejected")
	}
	if AddCurrency(balances, CurrencyGold, -5) != nil {
		t.Error("negative amount should be rejected")
	}
}

func TestDeductCurrencyRejectsOverdraft(t *testing.T) {
	balances := map[CurrencyType]int64{CurrencyGold: 100}

	if out := DeductCurrency(balances, CurrencyGold, 150); out != nil {
		t.Errorf("overdraft allowed: %v", out)
	}
	if balances[CurrencyGold] != 100 {
		t.Error("balance changed on rejected deduction")
	}

	out := DeductCurrency(balances, CurrencyGold, 100)
	if out == nil || out[CurrencyGold] != 0 {
		t.Errorf("exact deduction: got %v", out)
	}

	// Unknown currency has an implicit zero balance.
	if DeductCurrency(balances, CurrencyFaith, 1) != nil {
		t.Error("deduction from zero balance should be rejected")
	}
}

func TestExchangeCurrencyAtomic(t *testing.T) {
	balances := map[CurrencyType]int64{CurrencyGold: 100, CurrencyDungeon: 3}

	out := ExchangeCurrency(balances, CurrencyDungeon, 2, CurrencyGold, 500)
	if out == nil {
		t.Fatal("exchange rejected")
	}
	if out[CurrencyDungeon] != 1 || out[CurrencyGold] != 600 {
		t.Errorf("exchange wrong: %v", out)
	}

	// Insufficient source leaves both sides untouched.
	if out := ExchangeCurrency(balances, CurrencyDungeon, 10, CurrencyGold, 500); out != nil {
		t.Errorf("partial exchange allowed: %v", out)
	}
	if balances[CurrencyGold] != 100 || balances[CurrencyDungeon] != 3 {
		t.Error("balances changed on rejected exchange")
	}
}
