package trigger

// ltaSeed keeps the first recursive LTA update away from a zero division.
const ltaSeed = 1e-99

// RecursiveSTALTA computes the recursive STA/LTA characteristic function.
//
// Both averages are exponentially smoothed energies:
//
//	sta = x²/nsta + (1-1/nsta)*sta
//	lta = x²/nlta + (1-1/nlta)*lta
//
// The ratio is evaluated from sample 1 on and the first nlta samples are
// zeroed after the recurrence has run. Once lta decays to exactly zero
// (silent input) the ratio is reported as 0.
//
// Reference: Withers et al. (1998), BSSA 88(1), p. 98.
func RecursiveSTALTA(a []float64, nsta, nlta int) ([]float64, error) {
	if err := checkWindows(nsta, nlta, len(a)); err != nil {
		return nil, err
	}
	return recursiveSTALTA(a, nsta, nlta), nil
}

func recursiveSTALTA(a []float64, nsta, nlta int) []float64 {
	cf := make([]float64, len(a))

	csta := 1.0 / float64(nsta)
	clta := 1.0 / float64(nlta)
	icsta := 1.0 - csta
	iclta := 1.0 - clta

	sta := 0.0
	lta := ltaSeed
	for i := 1; i < len(a); i++ {
		sq := a[i] * a[i]
		sta = csta*sq + icsta*sta
		lta = clta*sq + iclta*lta
		if i < nlta || lta == 0 {
			continue
		}
		cf[i] = sta / lta
	}

	return cf
}
