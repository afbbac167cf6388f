package world

// Currency transitions operate on the ledger map and return a fresh map on
// change, nil on rejection. Overdraft prevention lives here and nowhere else.

// AddCurrency increments a balance. Amount must be positive.
func AddCurrency(balances map[CurrencyType]int64, t CurrencyType, amount int64) map[CurrencyType]int64 {
	if amount <= 0 {
		return nil
	}
	out := copyBalances(balances)
	out[t] += amount
	return out
}

// DeductCurrency decrements a balance, rejecting any overdraft. Either the
// full amount applies or nothing does.
func DeductCurrency(balances map[CurrencyType]int64, t CurrencyType, amount int64) map[CurrencyType]int64 {
	if amount <= 0 || balances[t] < amount {
		return nil
	}
	out := copyBalances(balances)
	out[t] -= amount
	return out
}

// ExchangeCurrency is deduct-then-add as one transition: sufficiency is
// checked before any state is built, so both legs apply or neither does.
func ExchangeCurrency(balances map[CurrencyType]int64, from CurrencyType, fromAmount int64, to CurrencyType, toAmount int64) map[CurrencyType]int64 {
	if fromAmount <= 0 || toAmount <= 0 || balances[from] < fromAmount {
		return nil
	}
	out := copyBalances(balances)
	out[from] -= fromAmount
	out[to] += toAmount
	return out
}

func copyBalances(in map[CurrencyType]int64) map[CurrencyType]int64 {
	out := make(map[CurrencyType]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
