package ferias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// CONTRACT ERRORS
// =============================================================================

func TestValidate_MissingConfigIsFatal(t *testing.T) {
	in := input(20)
	in.Config = nil

	_, err := ferias.ValidateFraction(in)
	assert.ErrorIs(t, err, generic.ErrConfigMissing)
}

func TestValidate_MissingCollaboratorData(t *testing.T) {
	in := input(20)
	in.Period = nil
	_, err := ferias.ValidateFraction(in)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	in = input(0)
	_, err = ferias.ValidateFraction(in)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

// =============================================================================
// CHECKS 1-3: START DATE
// =============================================================================

func TestValidate_StartRequired(t *testing.T) {
	in := input(20)
	in.Start = generic.Date{}
	requireRejected(t, in, ferias.RuleStartRequired)
}

func TestValidate_StartOnFridayOrSaturday(t *testing.T) {
	// GIVEN: A request that would otherwise break several later rules
	// WHEN: It starts on a Friday or Saturday
	// THEN: The weekday rule wins
	for _, start := range []string{"2026-12-04", "2026-12-05"} {
		in := input(3) // 3 days would also fail the residual rule
		in.Start = date(start)
		in.Advance13th = true
		requireRejected(t, in, ferias.RuleStartWeekday)
	}

	in := input(20)
	in.Start = date("2026-12-06") // Sunday
	requireAccepted(t, in)
}

func TestValidate_HolidayEve(t *testing.T) {
	// GIVEN: A company-wide feriado on Wednesday 2026-12-02
	// WHEN: Vacation starts Monday 2026-11-30 (two days before)
	// THEN: Rejected and the holiday is named
	in := input(20)
	in.Holidays = []ferias.Holiday{
		{ID: "h1", Date: date("2026-12-02"), Name: "Feriado Teste", Type: ferias.HolidayFeriado},
	}
	res := requireRejected(t, in, ferias.RuleHolidayEve)
	assert.Contains(t, res.Reason, "Feriado Teste")
	assert.Contains(t, res.Reason, "02/12/2026")

	// Day after start is blocked too
	in.Holidays[0].Date = date("2026-12-01")
	requireRejected(t, in, ferias.RuleHolidayEve)

	// Three days after start is fine
	in.Holidays[0].Date = date("2026-12-03")
	requireAccepted(t, in)
}

func TestValidate_HolidayEve_TypeAndScope(t *testing.T) {
	in := input(20)

	// Recesso does not block a start
	in.Holidays = []ferias.Holiday{
		{ID: "h1", Date: date("2026-12-01"), Name: "Recesso", Type: ferias.HolidayRecesso},
	}
	requireAccepted(t, in)

	// Ponto facultativo does
	in.Holidays[0].Type = ferias.HolidayPontoFacultativo
	requireRejected(t, in, ferias.RuleHolidayEve)

	// A feriado of another unit does not
	in.Holidays[0] = ferias.Holiday{ID: "h2", Date: date("2026-12-01"), Name: "Municipal RJ", Type: ferias.HolidayFeriado, UnitID: "rj"}
	requireAccepted(t, in)

	// The employee's own unit does
	in.Holidays[0].UnitID = "sp"
	requireRejected(t, in, ferias.RuleHolidayEve)
}

// =============================================================================
// CHECK 4: EARLY START AND COLLECTIVE VACATION
// =============================================================================

// openPeriod is still accruing on today: it ends 2027-03-01.
func openPeriod() *ferias.AccrualPeriod {
	p := newPeriod()
	p.StartDate = date("2026-03-01")
	p.EndDate = date("2027-03-01")
	p.ConcessionDeadline = date("2028-02-29")
	return p
}

func yearEndRule() ferias.CollectiveRule {
	return ferias.CollectiveRule{
		ID:     "col-1",
		Start:  date("2026-12-23"),
		End:    date("2027-01-03"),
		AreaID: "plataforma",
	}
}

func TestValidate_EarlyStartWithoutRule(t *testing.T) {
	in := input(20)
	in.Period = openPeriod()

	res := requireRejected(t, in, ferias.RuleBeforePeriodEnd)
	assert.Contains(t, res.Reason, "01/03/2027")
}

func TestValidate_EarlyStartCoveringCollectiveRule(t *testing.T) {
	// GIVEN: Employee's area has a collective rule for Dec 23 - Jan 3
	// WHEN: Fraction Dec 21 - Jan 5 (16 days) starts before period end
	// THEN: Accepted because it covers the whole rule range
	in := input(16)
	in.Period = openPeriod()
	in.Rules = []ferias.CollectiveRule{yearEndRule()}
	in.Start = date("2026-12-21")
	requireAccepted(t, in)
}

func TestValidate_EarlyStartPartiallyCoveringRule(t *testing.T) {
	// GIVEN: Same rule
	// WHEN: Fraction Dec 24 - Dec 30 only
	// THEN: Rejected with the period-end message
	in := input(7)
	in.Period = openPeriod()
	in.Rules = []ferias.CollectiveRule{yearEndRule()}
	in.Start = date("2026-12-24")
	requireRejected(t, in, ferias.RuleBeforePeriodEnd)
}

func TestValidate_EarlyStartRuleForOtherArea(t *testing.T) {
	rule := yearEndRule()
	rule.AreaID = "financeiro"

	in := input(16)
	in.Period = openPeriod()
	in.Rules = []ferias.CollectiveRule{rule}
	in.Start = date("2026-12-21")
	requireRejected(t, in, ferias.RuleBeforePeriodEnd)
}

// =============================================================================
// CHECKS 5-8: NOTICE, ABONO, 13TH, DEADLINE
// =============================================================================

func TestValidate_MinimumNotice(t *testing.T) {
	in := input(20)
	in.Start = date("2026-11-16") // 28 days ahead

	res := requireRejected(t, in, ferias.RuleMinNotice)
	assert.Contains(t, res.Reason, "18/11/2026")

	in.Start = date("2026-11-18") // exactly 30 days
	requireAccepted(t, in)
}

func TestValidate_AbonoNotice(t *testing.T) {
	// GIVEN: Concession deadline 2026-11-20, abono notice 45 days
	// WHEN: Abono is requested on 2026-10-19 (after 2026-10-06)
	// THEN: Abono notice rule
	in := input(20)
	in.Period.StartDate = date("2024-11-20")
	in.Period.EndDate = date("2025-11-20")
	in.Period.ConcessionDeadline = date("2026-11-20")
	in.Start = date("2026-11-02")
	in.Today = date("2026-10-02") // 31 days of notice

	in.AbonoRequested = true
	requireAccepted(t, in)

	in.Today = today
	in.Start = date("2026-11-18")
	requireRejected(t, in, ferias.RuleAbonoNotice)

	// Without abono the deadline itself is what fails next
	in.AbonoRequested = false
	in.Start = date("2026-11-30")
	requireRejected(t, in, ferias.RuleConcessionDeadline)
}

func TestValidate_AbonoWithZeroQuotaSkipsNotice(t *testing.T) {
	// Abono already granted under initial_balance: the quota is 0, so the
	// request carries no abono days and the notice rule does not apply.
	in := input(10)
	in.Period.ConcessionDeadline = date("2026-11-20")
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2026-10-26", 14)}
	in.Period.Fractions[0].AbonoDays = 5
	in.Start = date("2026-11-23")
	in.AbonoRequested = true
	requireRejected(t, in, ferias.RuleConcessionDeadline)
}

func TestValidate_Advance13th_Window(t *testing.T) {
	in := input(20)
	in.Advance13th = true
	requireAccepted(t, in) // 30/11 is the last day of the default window

	in.Start = date("2026-12-07")
	res := requireRejected(t, in, ferias.RuleAdvance13thWindow)
	assert.Contains(t, res.Reason, "01/02 a 30/11")
}

func TestValidate_Advance13th_OncePerYear(t *testing.T) {
	// GIVEN: Another period of the employee already has the advance for a
	// vacation starting in 2027
	other := ferias.AccrualPeriod{ID: "pa-0"}
	taken := fraction("f-old", "2027-03-01", 10)
	taken.Advance13th = true
	other.Fractions = []ferias.Fraction{taken}

	in := input(20)
	in.Employee.Periods = []ferias.AccrualPeriod{other, *in.Period}
	in.Advance13th = true
	in.Start = date("2027-03-08")
	requireRejected(t, in, ferias.RuleAdvance13thYear)

	// A 2026 start is a different calendar year
	in.Start = date("2026-11-30")
	requireAccepted(t, in)

	// A canceled advance does not count
	in.Start = date("2027-03-08")
	in.Employee.Periods[0].Fractions[0].Status = ferias.FractionCanceled
	requireAccepted(t, in)
}

func TestValidate_Advance13th_EditingSameFraction(t *testing.T) {
	// Editing the fraction that holds the advance does not collide with itself.
	f := fraction("f1", "2027-03-01", 10)
	f.Advance13th = true

	in := input(10)
	in.Period.Fractions = []ferias.Fraction{f}
	in.Employee.Periods = []ferias.AccrualPeriod{*in.Period}
	in.EditingFractionID = "f1"
	in.Advance13th = true
	in.Days = 20
	in.Start = date("2027-03-08")
	requireAccepted(t, in)
}

func TestValidate_ConcessionDeadline(t *testing.T) {
	in := input(20)
	in.Start = date("2027-09-01") // Wednesday, equal to the deadline
	requireRejected(t, in, ferias.RuleConcessionDeadline)

	in.Start = date("2027-08-31")
	requireAccepted(t, in)
}

// =============================================================================
// CHECKS 9-14: SCHEDULE SHAPE
// =============================================================================

func TestValidate_Overlap(t *testing.T) {
	in := input(10)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2026-11-30", 14)}
	in.Start = date("2026-12-13") // last day of f1

	res := requireRejected(t, in, ferias.RuleOverlap)
	assert.Contains(t, res.Reason, "2026-12-13")

	in.Start = date("2026-12-14")
	requireAccepted(t, in)

	// Canceled fractions free their dates
	in.Start = date("2026-12-07")
	in.Period.Fractions[0].Status = ferias.FractionCanceled
	in.Days = 20
	requireAccepted(t, in)
}

func TestValidate_EditDoesNotOverlapItself(t *testing.T) {
	in := input(20)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2026-11-30", 14)}
	in.EditingFractionID = "f1"
	in.Start = date("2026-12-07")
	requireAccepted(t, in)
}

func TestValidate_Balance(t *testing.T) {
	in := input(14)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2027-01-04", 20)}

	res := requireRejected(t, in, ferias.RuleBalance)
	assert.Contains(t, res.Reason, "disponíveis 10")

	// Abono counts against the balance too
	in.Days = 10
	in.AbonoRequested = true
	in.AbonoDays = 1
	requireRejected(t, in, ferias.RuleBalance)
}

func TestValidate_ExplicitAbonoAboveQuota(t *testing.T) {
	// GIVEN: A fresh period, quota floor(30/3) = 10
	// WHEN: 14 days + 16 explicit abono days are proposed
	// THEN: Rejected on the quota even though 30 fits the balance
	in := input(14)
	in.AbonoRequested = true
	in.AbonoDays = 16
	res := requireRejected(t, in, ferias.RuleAbonoQuota)
	assert.Contains(t, res.Reason, "10 dias")

	// Exactly the quota is fine
	in.AbonoDays = 10
	requireAccepted(t, in)
}

func TestValidate_ExplicitAbonoAfterGrant(t *testing.T) {
	// GIVEN: initial_balance basis and a 14-day fraction already holding 5 abono days
	in := input(6)
	f1 := fraction("f1", "2027-01-04", 14)
	f1.AbonoDays = 5
	in.Period.Fractions = []ferias.Fraction{f1}

	// WHEN: 6 days + 5 explicit abono days are proposed (11 would fit the balance)
	in.AbonoRequested = true
	in.AbonoDays = 5

	// THEN: The period already had its grant
	res := requireRejected(t, in, ferias.RuleAbonoQuota)
	assert.Contains(t, res.Reason, "já foi concedido")

	// Without abono the same 6 days go through
	in.AbonoRequested = false
	in.AbonoDays = 0
	requireAccepted(t, in)
}

func TestValidate_FullPeriodThenSecondFraction(t *testing.T) {
	// GIVEN: 30 days in a single fraction is accepted
	in := input(30)
	requireAccepted(t, in)

	// WHEN: A second fraction is proposed after it was stored
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2026-11-30", 30)}
	in.Start = date("2027-03-01")
	in.Days = 5

	// THEN: The balance check rejects before the fractionation limit
	requireRejected(t, in, ferias.RuleBalance)
}

func TestValidate_MaxFractions(t *testing.T) {
	in := input(10)
	in.Config.MaxFracionamentos = 2
	in.Period.Fractions = []ferias.Fraction{
		fraction("f1", "2027-01-04", 14),
		fraction("f2", "2027-03-01", 6),
	}
	requireRejected(t, in, ferias.RuleMaxFractions)

	// Editing is never blocked by the limit
	in.EditingFractionID = "f2"
	in.Days = 16
	requireAccepted(t, in)

	// A canceled fraction does not count
	in.EditingFractionID = ""
	in.Days = 10
	in.Period.Fractions[1].Status = ferias.FractionCanceled
	requireAccepted(t, in)
}

func TestValidate_MinFractionSize(t *testing.T) {
	in := input(4)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2027-01-04", 20)}
	res := requireRejected(t, in, ferias.RuleMinFractionSize)
	assert.Contains(t, res.Reason, "5 dias")
}

func TestValidate_ResidualBalance(t *testing.T) {
	// 27 days leaves 3
	in := input(27)
	res := requireRejected(t, in, ferias.RuleResidualBalance)
	assert.Contains(t, res.Reason, "3 dias")

	// 25 leaves exactly 5
	in.Days = 25
	requireAccepted(t, in)
}

func TestValidate_FourteenDayBlock(t *testing.T) {
	// GIVEN: saldo 30, nothing scheduled
	// WHEN: 20 days are proposed
	// THEN: Accepted (20 is itself the block)
	requireAccepted(t, input(20))

	// 10 days leaves 20, room for the block later
	requireAccepted(t, input(10))

	// GIVEN: 10 days already scheduled
	// WHEN: Another 10 days is proposed, leaving 10
	// THEN: Rejected, 10 remaining days cannot hold a 14-day block
	in := input(10)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2027-03-01", 10)}
	res := requireRejected(t, in, ferias.RuleFourteenDayBlock)
	assert.Contains(t, res.Reason, "14 dias")
	assert.Contains(t, res.Reason, "10 dias")
}

func TestValidate_FourteenDayBlock_FullyScheduled(t *testing.T) {
	// Three fractions of 10 would use the whole balance without a block.
	in := input(10)
	in.Period.Fractions = []ferias.Fraction{
		fraction("f1", "2027-01-04", 10),
		fraction("f2", "2027-03-01", 10),
	}
	res := requireRejected(t, in, ferias.RuleFourteenDayBlock)
	assert.Contains(t, res.Reason, "no mínimo 14 dias")

	// With a 14-day fraction on record the same shape is fine
	in.Period.Fractions[0] = fraction("f1", "2027-01-04", 14)
	in.Days = 6
	requireAccepted(t, in)
}

func TestValidate_AbonoWithVacation(t *testing.T) {
	// GIVEN: initial_balance basis, quota floor(30/3) = 10
	// WHEN: 20 days + abono (quota) is proposed
	// THEN: Accepted, leaving 0
	in := input(20)
	in.AbonoRequested = true
	requireAccepted(t, in)

	// 14 + 10 abono leaves 6, also fine
	in.Days = 14
	requireAccepted(t, in)

	// 15 + 10 abono leaves 5
	in.Days = 15
	requireAccepted(t, in)

	// 18 + 10 abono leaves 2
	in.Days = 18
	requireRejected(t, in, ferias.RuleResidualBalance)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	in := input(10)
	in.Period.Fractions = []ferias.Fraction{fraction("f1", "2027-03-01", 10)}
	before := in.Period.Clone()

	_, err := ferias.ValidateFraction(in)
	require.NoError(t, err)
	assert.Equal(t, before, *in.Period)
}

// =============================================================================
// PROPERTY: every accepted schedule keeps the laws
// =============================================================================

func TestValidate_AcceptedSchedulesKeepLaws(t *testing.T) {
	// GIVEN: Every sequence of up to three day counts from the default list
	// WHEN: Each request is validated and, if accepted, applied in order
	// THEN: Balance is conserved, fractions never overlap, the residual is
	//       0 or >= 5, and a fully used period has a 14-day fraction
	options := ferias.DefaultAppConfig().DayOptions
	starts := []generic.Date{date("2026-11-30"), date("2027-01-04"), date("2027-03-01")}
	now := today.Time()

	var walk func(p ferias.AccrualPeriod, depth int)
	walk = func(p ferias.AccrualPeriod, depth int) {
		if depth == len(starts) {
			return
		}
		for _, n := range options {
			in := input(n)
			in.Period = &p
			in.Start = starts[depth]
			res, err := ferias.ValidateFraction(in)
			require.NoError(t, err)
			if !res.OK {
				continue
			}

			next, _, err := ferias.ApplyFraction(p, "", ferias.FractionDraft{Start: in.Start, Days: n}, "emp-1", now)
			require.NoError(t, err)

			bal := ferias.ComputeBalance(&next, in.Config, "")
			assert.True(t, bal.Conserved())
			assert.True(t, bal.RemainingBalance == 0 || bal.RemainingBalance >= 5,
				"remaining %d after %v", bal.RemainingBalance, next.Fractions)

			hasBlock := false
			for i, a := range next.Fractions {
				if a.Days >= 14 {
					hasBlock = true
				}
				for _, b := range next.Fractions[i+1:] {
					assert.False(t, a.Range().Overlaps(b.Range()))
				}
			}
			if bal.RemainingBalance == 0 {
				assert.True(t, hasBlock, "fully used without a 14-day block: %v", next.Fractions)
			}

			walk(next, depth+1)
		}
	}
	walk(*newPeriod(), 0)
}
