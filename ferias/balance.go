/*
balance.go - Balance and abono quota of an accrual period

PURPOSE:
  Answers "how many days are left in this period, and how many can be
  sold as abono?". Every validation call and every period view goes
  through ComputeBalance.

BALANCE COMPONENTS:
  SaldoTotal:       entitlement of the period (normally 30)
  UsedDays:         vacation days of active fractions
  AbonoDays:        abono days of active fractions
  RemainingBalance: SaldoTotal - UsedDays - AbonoDays

  Active means status not canceled/rejected. While editing, the fraction
  under edit is excluded so it does not count against itself.

ABONO QUOTA:
  current_balance:  floor(RemainingBalance / 3)
  initial_balance:  floor(SaldoTotal / 3), but 0 once any active fraction
                    already carries abono days (one grant per period)

EXAMPLE:
  SaldoTotal 30, one active fraction of 15 days with 5 abono days:
    UsedDays 15, AbonoDays 5, RemainingBalance 10
    current_balance quota: 3
    initial_balance quota: 0 (abono already granted)

SEE ALSO:
  - config.go: EffectiveAbonoBasis
  - validation.go: balance, residual and 14-day checks
*/
package ferias

import "github.com/shopspring/decimal"

// =============================================================================
// BALANCE
// =============================================================================

// Balance is the computed state of one accrual period.
type Balance struct {
	SaldoTotal       int
	UsedDays         int
	AbonoDays        int
	RemainingBalance int
	AbonoQuota       int
	Basis            AbonoBasis
}

// Conserved reports whether used + abono + remaining adds up to the entitlement.
func (b Balance) Conserved() bool {
	return b.UsedDays+b.AbonoDays+b.RemainingBalance == b.SaldoTotal
}

// AbonoOffered reports whether an abono request may be offered alongside a
// vacation of vacationDays. It is disabled when the vacation plus the quota
// would not fit in the remaining balance, and also whenever the quota is 0:
// with nothing left to sell there is no abono to offer, even if the vacation
// alone would fit.
func (b Balance) AbonoOffered(vacationDays int) bool {
	if b.AbonoQuota <= 0 {
		return false
	}
	return vacationDays+b.AbonoQuota <= b.RemainingBalance
}

// ComputeBalance computes the balance of p, ignoring the fraction excludeID
// (pass "" to count every fraction).
func ComputeBalance(p *AccrualPeriod, cfg *AppConfig, excludeID string) Balance {
	b := Balance{SaldoTotal: p.SaldoTotal}

	for _, f := range activeFractions(p.Fractions, excludeID) {
		b.UsedDays += f.Days
		b.AbonoDays += f.AbonoDays
	}
	b.RemainingBalance = b.SaldoTotal - b.UsedDays - b.AbonoDays

	b.Basis = EffectiveAbonoBasis(p, cfg)
	switch b.Basis {
	case AbonoBasisCurrent:
		b.AbonoQuota = thirdOf(b.RemainingBalance)
	default:
		// One abono grant per period under the initial basis. A rejected
		// fraction still holds its grant; only cancellation releases it.
		if abonoGranted(p.Fractions, excludeID) {
			b.AbonoQuota = 0
		} else {
			b.AbonoQuota = thirdOf(b.SaldoTotal)
		}
	}
	return b
}

func abonoGranted(fractions []Fraction, excludeID string) bool {
	for _, f := range fractions {
		if f.Status == FractionCanceled || (excludeID != "" && f.ID == excludeID) {
			continue
		}
		if f.AbonoDays > 0 {
			return true
		}
	}
	return false
}

// thirdOf returns floor(n / 3), never negative.
func thirdOf(n int) int {
	if n <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(3)).Floor().IntPart())
}

// EffectiveAbonoDays returns the abono days a request actually asks for:
// the explicit amount when given, otherwise the full quota.
func EffectiveAbonoDays(requested bool, explicitDays int, b Balance) int {
	if !requested {
		return 0
	}
	if explicitDays > 0 {
		return explicitDays
	}
	return b.AbonoQuota
}
