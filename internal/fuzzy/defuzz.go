package fuzzy

// #region constants
// DefaultPartitions is the number of integration steps across an output range.
const DefaultPartitions = 100

// #endregion constants

// #region defuzzify
// Defuzzify returns the point that splits the mass of u over rng in half.
// partitions <= 0 selects DefaultPartitions.
func Defuzzify(u *TermUnion, rng Range, partitions int) (float64, error) {
	x, _, err := centerOfMass(u, rng, partitions)
	return x, err
}

// Mass integrates u over rng with the same fixed-step right sum Defuzzify uses.
func Mass(u *TermUnion, rng Range, partitions int) (float64, error) {
	_, s, err := centerOfMass(u, rng, partitions)
	return s, err
}

// centerOfMass walks the range twice with step (High-Low)/partitions: once to
// sum the total mass S, then again until the running mass reaches S/2.
// Samples are taken after each step, so the last sample may lie up to one
// step past High. Zero mass returns Low.
func centerOfMass(u *TermUnion, rng Range, partitions int) (point, mass float64, err error) {
	if partitions <= 0 {
		partitions = DefaultPartitions
	}
	delta := rng.Width() / float64(partitions)
	// the walk needs partitions+1 steps at most; the cap only stops a step
	// that is too small to move the cursor
	limit := 2*partitions + 2

	cursor := rng.Low
	for steps := 0; cursor < rng.High && steps < limit; steps++ {
		cursor += delta
		v, err := u.ValueAt(cursor)
		if err != nil {
			return 0, 0, err
		}
		mass += delta * v
	}

	half := mass / 2
	cursor = rng.Low
	var partial float64
	for steps := 0; partial < half && steps < limit; steps++ {
		cursor += delta
		v, err := u.ValueAt(cursor)
		if err != nil {
			return 0, 0, err
		}
		partial += delta * v
	}
	return cursor, mass, nil
}

// #endregion defuzzify
