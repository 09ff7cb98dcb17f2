package trigger

// delayedWarmup is added to nsta+nlta to get the length of the muted prefix.
const delayedWarmup = 50

// DelayedSTALTA computes the delayed STA/LTA characteristic function.
//
// Both averages accumulate two lagged energy terms onto their previous value:
//
//	sta[i] = (a[i]² + a[i-nsta]²)/nsta + sta[i-1]
//	lta[i] = (a[i-nsta-1]² + a[i-nsta-nlta-1]²)/nlta + lta[i-1]
//
// A lag that reaches before the first sample contributes 0 and the
// recurrences start from 0; nothing is read from the end of the trace. The
// first nsta+nlta+50 samples are muted, which covers every position where a
// lag was clipped.
//
// Reference: Withers et al. (1998), BSSA 88(1), p. 97.
func DelayedSTALTA(a []float64, nsta, nlta int) ([]float64, error) {
	if err := checkWindows(nsta, nlta, len(a)); err != nil {
		return nil, err
	}
	return delayedSTALTA(a, nsta, nlta), nil
}

func delayedSTALTA(a []float64, nsta, nlta int) []float64 {
	n := len(a)
	cf := make([]float64, n)

	lagged := func(i int) float64 {
		if i < 0 {
			return 0.0
		}
		return a[i] * a[i]
	}

	fsta := float64(nsta)
	flta := float64(nlta)
	warmup := nsta + nlta + delayedWarmup

	sta, lta := 0.0, 0.0
	for i := range n {
		sta += (lagged(i) + lagged(i-nsta)) / fsta
		lta += (lagged(i-nsta-1) + lagged(i-nsta-nlta-1)) / flta
		if i < warmup || lta == 0 {
			continue
		}
		cf[i] = sta / lta
	}

	return cf
}
